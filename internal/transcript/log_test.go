package transcript

import (
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"dale-assistant/internal/domain"
	"dale-assistant/internal/page"
)

type fakeContainer struct {
	rows     []string
	scrolled int
	err      error
}

func (f *fakeContainer) AppendMarkup(m string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeContainer) ScrollToEnd() { f.scrolled++ }

func TestNew_NilContainer(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)
}

func TestAppend_AlignmentAndScroll(t *testing.T) {
	c := &fakeContainer{}
	l, err := New(c, nil)
	require.NoError(t, err)

	l.Append(domain.ChatMessage{Text: "hello", Mine: true})
	l.Append(domain.ChatMessage{Text: "hi there", Mine: false})

	require.Len(t, c.rows, 2)
	require.Contains(t, c.rows[0], `class="flex justify-end"`)
	require.Contains(t, c.rows[1], `class="flex justify-start"`)
	require.Equal(t, 2, c.scrolled)
	require.Equal(t, []domain.ChatMessage{{Text: "hello", Mine: true}, {Text: "hi there"}}, l.Messages())
}

func TestEscape(t *testing.T) {
	require.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp;", Escape(`<script>alert("x")</script> &`))
}

func TestAppend_EscapesIntoRealPage(t *testing.T) {
	doc := page.New("")
	doc.Ensure("log", `<div id="log"></div>`)
	l, err := New(doc.Container("log"), nil)
	require.NoError(t, err)

	l.Append(domain.ChatMessage{Text: `<script>alert(1)</script>`, Mine: true})
	l.Append(domain.ChatMessage{Text: `Fish & Chips "special"`, Mine: false})

	out, err := doc.HTML()
	require.NoError(t, err)
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	require.Equal(t, 0, parsed.Find("#log script").Length())
	rows := parsed.Find("#log > div")
	require.Equal(t, 2, rows.Length())
	require.Equal(t, `<script>alert(1)</script>`, rows.Eq(0).Text())
	require.Equal(t, `Fish & Chips "special"`, rows.Eq(1).Text())
	require.Equal(t, 2, doc.ScrollTop("log"))
}

func TestAppend_ContainerErrorStillRecords(t *testing.T) {
	c := &fakeContainer{err: page.ErrNoElement}
	l, err := New(c, nil)
	require.NoError(t, err)
	l.Append(domain.ChatMessage{Text: "x", Mine: true})
	require.Equal(t, 1, len(l.Messages()))
}

func TestOnAppend(t *testing.T) {
	l, err := New(&fakeContainer{}, nil)
	require.NoError(t, err)
	var seen []domain.ChatMessage
	l.OnAppend(func(m domain.ChatMessage) { seen = append(seen, m) })
	l.Append(domain.ChatMessage{Text: "a", Mine: true})
	require.Equal(t, []domain.ChatMessage{{Text: "a", Mine: true}}, seen)
}

func TestAppend_Concurrent(t *testing.T) {
	doc := page.New("")
	doc.Ensure("log", `<div id="log"></div>`)
	l, err := New(doc.Container("log"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(domain.ChatMessage{Text: "reply"})
		}()
	}
	wg.Wait()
	require.Equal(t, 20, len(l.Messages()))
	require.Equal(t, 20, doc.ChildCount("log"))
}
