package pagecontext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"dale-assistant/internal/domain"
)

func TestBuild_Sections(t *testing.T) {
	cases := []struct {
		path    string
		page    string
		section domain.Section
	}{
		{"/app/marketplace.html", "marketplace.html", domain.SectionMarketplace},
		{"/app/workforce", "workforce", domain.SectionWorkforce},
		{"/digital_store_dashboard.html", "digital_store_dashboard.html", domain.SectionDigitalStore},
		{"/inbox/my_chats.html", "my_chats.html", domain.SectionChats},
		{"/dashboard.html", "dashboard.html", domain.SectionGeneric},
		{"/", "", domain.SectionGeneric},
		{"", "", domain.SectionGeneric},
		{"/marketplace/", "", domain.SectionGeneric},
		{"/marketplace/orders.html", "orders.html", domain.SectionGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got := Build(StaticLocation(tc.path))
			require.Equal(t, tc.page, got.Page)
			require.Equal(t, tc.section, got.Extras.Section)
			require.Equal(t, "page", got.Type)
			require.Nil(t, got.ID)
		})
	}
}

func TestBuild_FirstMatchWins(t *testing.T) {
	got := Build(StaticLocation("/marketplace_workforce_chats.html"))
	require.Equal(t, domain.SectionWorkforce, got.Extras.Section)

	got = Build(StaticLocation("/chats_marketplace"))
	require.Equal(t, domain.SectionMarketplace, got.Extras.Section)
}

func TestBuild_NilLocation(t *testing.T) {
	got := Build(nil)
	require.Equal(t, "", got.Page)
	require.Equal(t, domain.SectionGeneric, got.Extras.Section)
}

func TestURLLocation(t *testing.T) {
	require.Equal(t, "/shop/marketplace.html", URLLocation("https://agricore.example/shop/marketplace.html?q=1#top").Path())
	require.Equal(t, "/a/b", URLLocation("/a/b").Path())
	got := Build(URLLocation("http://localhost:8000/pages/chats.html?id=4"))
	require.Equal(t, "chats.html", got.Page)
	require.Equal(t, domain.SectionChats, got.Extras.Section)
}

func TestNewBuilder_ExtraRulesAfterDefaults(t *testing.T) {
	b := NewBuilder(
		Rule{Keyword: "store", Section: domain.SectionDigitalStore},
		Rule{Keyword: "", Section: domain.SectionChats},
		Rule{Keyword: "x", Section: domain.Section("bogus")},
	)
	require.Equal(t, domain.SectionDigitalStore, b.Classify("storefront"))
	require.Equal(t, domain.SectionMarketplace, b.Classify("marketplace_store"))
	require.Equal(t, domain.SectionGeneric, b.Classify("x"))
}

func TestBuild_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Build(StaticLocation("/workforce.html")))
	require.NoError(t, err)
	require.JSONEq(t, `{"page":"workforce.html","type":"page","id":null,"extras":{"section":"workforce"}}`, string(raw))
}

func TestURLLocation_KeepsEscapes(t *testing.T) {
	require.Equal(t, "/app/digital%5Fstore.html", URLLocation("/app/digital%5Fstore.html").Path())
	got := Build(URLLocation("https://agricore.example/app/digital%5Fstore.html"))
	require.Equal(t, "digital%5Fstore.html", got.Page)
	require.Equal(t, domain.SectionGeneric, got.Extras.Section)

	got = Build(URLLocation("/a/b%2Fmarketplace"))
	require.Equal(t, "b%2Fmarketplace", got.Page)
}
