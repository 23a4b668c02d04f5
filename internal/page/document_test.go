package page

import (
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNew_Title(t *testing.T) {
	d := New("Marketplace")
	require.Equal(t, "Marketplace", d.Title())
	require.Equal(t, 1, d.Count("body"))
}

func TestParse_ExistingPage(t *testing.T) {
	d, err := Parse(strings.NewReader(`<html><body><main id="app">hi</main></body></html>`))
	require.NoError(t, err)
	require.Equal(t, 1, d.Count("#app"))
	require.Equal(t, "hi", d.Text("#app"))
}

func TestEnsure_Idempotent(t *testing.T) {
	d := New("")
	require.True(t, d.Ensure("fab", `<button id="fab"></button>`))
	require.False(t, d.Ensure("fab", `<button id="fab"></button>`))
	require.Equal(t, 1, d.Count("#fab"))
}

func TestEnsure_Concurrent(t *testing.T) {
	d := New("")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Ensure("fab", `<button id="fab"></button>`)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, d.Count("#fab"))
}

func TestClick(t *testing.T) {
	d := New("")
	clicks := 0
	d.On("btn", func() { clicks++ })
	require.False(t, d.Click("btn"), "handler without element does nothing")

	d.Ensure("btn", `<button id="btn"></button>`)
	require.True(t, d.Click("btn"))
	require.Equal(t, 1, clicks)
	require.False(t, d.Click("missing"))
}

func TestClick_HandlerMayUseDocument(t *testing.T) {
	d := New("")
	d.Ensure("btn", `<button id="btn" class="hidden"></button>`)
	d.On("btn", func() { d.RemoveClass("btn", "hidden") })
	require.True(t, d.Click("btn"))
	require.False(t, d.HasClass("btn", "hidden"))
}

func TestClassesAndValues(t *testing.T) {
	d := New("")
	d.Ensure("in", `<input id="in"/>`)
	d.AddClass("in", "hidden")
	require.True(t, d.HasClass("in", "hidden"))
	d.RemoveClass("in", "hidden")
	require.False(t, d.HasClass("in", "hidden"))

	require.Equal(t, "", d.Value("in"))
	d.SetValue("in", `say "hi"`)
	require.Equal(t, `say "hi"`, d.Value("in"))
}

func TestAppendElement_TextIsNotMarkup(t *testing.T) {
	d := New("")
	d.Ensure("box", `<div id="box"></div>`)
	require.NoError(t, d.AppendElement("box", "button", "b0", "chip", `<script>alert(1)</script> & co`))
	require.Equal(t, 0, d.Count("#box script"))
	require.Equal(t, `<script>alert(1)</script> & co`, d.Text("#b0"))

	out, err := d.HTML()
	require.NoError(t, err)
	require.Contains(t, out, `&lt;script&gt;alert(1)&lt;/script&gt; &amp; co`)

	require.ErrorIs(t, d.AppendElement("nope", "p", "", "", "x"), ErrNoElement)
}

func TestSetChildrenAndContainer(t *testing.T) {
	d := New("")
	d.Ensure("log", `<div id="log"><p>old</p></div>`)
	require.NoError(t, d.SetChildren("log", ""))
	require.Equal(t, 0, d.ChildCount("log"))

	c := d.Container("log")
	require.NoError(t, c.AppendMarkup(`<div class="row">a</div>`))
	require.NoError(t, c.AppendMarkup(`<div class="row">b</div>`))
	c.ScrollToEnd()
	require.Equal(t, 2, d.ChildCount("log"))
	require.Equal(t, 2, d.ScrollTop("log"))

	require.ErrorIs(t, d.SetChildren("nope", ""), ErrNoElement)
	require.ErrorIs(t, d.Container("nope").AppendMarkup("<p></p>"), ErrNoElement)
}

func TestHTML_RoundTrips(t *testing.T) {
	d := New("Home")
	d.Ensure("fab", `<button id="fab" title="Dale AI Assistant"></button>`)
	out, err := d.HTML()
	require.NoError(t, err)

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 1, parsed.Find("#fab").Length())
	title, _ := parsed.Find("#fab").Attr("title")
	require.Equal(t, "Dale AI Assistant", title)
}
