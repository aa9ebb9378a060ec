package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!doctype html>
<html>
<head>
<title>Fallback Title &amp; Co</title>
<meta property="og:title" content="Nike Air Max 90 &#39;White&#39;" />
<meta name="og:description" content="Barely worn trainers" />
<meta property="product:price:amount" content="45.50" />
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "BreadcrumbList"},
    {
      "@type": "Product",
      "name": "Nike Air Max 90",
      "brand": {"name": "Nike"},
      "itemCondition": "Used - Very Good",
      "offers": {"price": 42.5},
      "additionalProperty": [
        {"name": "Shoe Size (UK)", "value": "9"}
      ]
    }
  ]
}
</script>
</head>
<body></body>
</html>`

func TestParseListingPage(t *testing.T) {
	got := Parse(listingPage)

	// meta og:title outranks the JSON-LD name
	assert.Equal(t, "Nike Air Max 90 'White'", got.Title)
	assert.Equal(t, "Nike", got.Brand)
	// JSON-LD offers.price outranks the meta amount
	assert.Equal(t, "42.5", got.Price)
	assert.Equal(t, "VERY_GOOD", got.Condition)
	assert.Equal(t, "9", got.Size)
	assert.Equal(t, "Barely worn trainers", got.Description)
}

func TestParseFallsBackToTitleTag(t *testing.T) {
	got := Parse(`<html><head><title>Plain &amp; Simple</title></head></html>`)
	assert.Equal(t, "Plain & Simple", got.Title)
	assert.Empty(t, got.Brand)
	assert.Empty(t, got.Condition)
}

func TestParseSurvivesBrokenJSONLD(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{not valid json</script>
<meta property="og:title" content="Still Works" />
</head></html>`

	got := Parse(page)
	require.Equal(t, "Still Works", got.Title)
}

func TestNormalizeCondition(t *testing.T) {
	cases := map[string]string{
		"Brand new with tags":   "NEW_WITH_TAGS",
		"New with defects":      "NEW_WITH_DEFECTS",
		"Brand new, unworn":     "NEW_WITHOUT_TAGS",
		// "tag" wins over "without": any new+tag wording maps to
		// NEW_WITH_TAGS.
		"New without tags": "NEW_WITH_TAGS",
		"Used - Excellent":      "LIKE_NEW",
		"Used - Very Good":      "VERY_GOOD",
		"Used - Good":           "GOOD",
		"Acceptable condition":  "ACCEPTABLE",
		"For parts":             "FOR_PARTS_OR_NOT_WORKING",
		"Spares or not working": "FOR_PARTS_OR_NOT_WORKING",
		"Mystery":               "",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCondition(in), "input %q", in)
	}
}

func TestSourceFromHostname(t *testing.T) {
	cases := map[string]string{
		"www.ebay.co.uk":       "eBay",
		"VINTED.fr":            "Vinted",
		"www.depop.com":        "Depop",
		"m.facebook.com":       "Facebook Marketplace",
		"www.gumtree.com":      "Gumtree",
		"amazon.de":            "Amazon",
		"www.etsy.com":         "Etsy",
		"shop.tiktok.com":      "TikTok Shop",
		"www.instagram.com":    "Instagram",
		"some-random-shop.com": "",
	}
	for host, want := range cases {
		assert.Equal(t, want, SourceFromHostname(host), "host %q", host)
	}
}
