package importer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	metaTagRe   = regexp.MustCompile(`(?i)<meta\s+[^>]*>`)
	metaKeyRe   = regexp.MustCompile(`(?i)\s(?:property|name)=["']([^"']+)["']`)
	metaValueRe = regexp.MustCompile(`(?i)\scontent=["']([\s\S]*?)["']`)
	jsonLdRe    = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	titleRe     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	anyTagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
)

func decodeHTML(value string) string {
	return strings.TrimSpace(htmlEntities.Replace(value))
}

func stripTags(value string) string {
	return decodeHTML(spaceRe.ReplaceAllString(anyTagRe.ReplaceAllString(value, " "), " "))
}

// Parse extracts listing fields from raw page HTML.
func Parse(html string) Imported {
	meta := parseMetaTags(html)
	product := findProductNode(parseJSONLD(html))

	title := firstNonEmpty(
		meta["og:title"],
		meta["twitter:title"],
		nodeString(product, "name"),
		extractTitle(html),
	)

	brand := firstNonEmpty(
		nodeString(nodeChild(product, "brand"), "name"),
		nodeString(product, "brand"),
		meta["product:brand"],
	)

	price := firstNonEmpty(
		nodeString(nodeChild(product, "offers"), "price"),
		nodeString(product, "price"),
		meta["product:price:amount"],
	)

	condition := NormalizeCondition(firstNonEmpty(
		nodeString(product, "itemCondition"),
		meta["product:condition"],
		meta["og:condition"],
	))

	size := firstNonEmpty(
		nodeString(product, "size"),
		sizeFromProperties(product),
	)

	description := firstNonEmpty(
		nodeString(product, "description"),
		meta["og:description"],
	)

	return Imported{
		Title:       title,
		Brand:       brand,
		Price:       price,
		Condition:   condition,
		Size:        size,
		Description: description,
	}
}

func extractTitle(html string) string {
	if m := titleRe.FindStringSubmatch(html); m != nil {
		return stripTags(m[1])
	}
	return ""
}

// parseMetaTags collects property/name -> content pairs; the first
// occurrence of a key wins.
func parseMetaTags(html string) map[string]string {
	meta := map[string]string{}

	for _, tag := range metaTagRe.FindAllString(html, -1) {
		key := metaKeyRe.FindStringSubmatch(tag)
		content := metaValueRe.FindStringSubmatch(tag)
		if key == nil || content == nil {
			continue
		}

		k := strings.ToLower(strings.TrimSpace(key[1]))
		v := decodeHTML(content[1])
		if meta[k] == "" && v != "" {
			meta[k] = v
		}
	}
	return meta
}

// parseJSONLD returns every JSON-LD object on the page, flattening
// top-level arrays and @graph wrappers.
func parseJSONLD(html string) []map[string]interface{} {
	var nodes []map[string]interface{}

	for _, m := range jsonLdRe.FindAllStringSubmatch(html, -1) {
		raw := decodeHTML(m[1])
		if raw == "" {
			continue
		}

		var parsed interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			// some sites embed literal newlines inside strings
			if err := json.Unmarshal([]byte(strings.ReplaceAll(raw, "\n", " ")), &parsed); err != nil {
				continue
			}
		}
		nodes = append(nodes, flattenJSONLD(parsed)...)
	}
	return nodes
}

func flattenJSONLD(entry interface{}) []map[string]interface{} {
	switch v := entry.(type) {
	case []interface{}:
		var out []map[string]interface{}
		for _, e := range v {
			out = append(out, flattenJSONLD(e)...)
		}
		return out
	case map[string]interface{}:
		if graph, ok := v["@graph"].([]interface{}); ok {
			return flattenJSONLD(graph)
		}
		return []map[string]interface{}{v}
	default:
		return nil
	}
}

func findProductNode(nodes []map[string]interface{}) map[string]interface{} {
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(toString(n["@type"])), "product") {
			return n
		}
	}
	return nil
}

func nodeChild(node map[string]interface{}, key string) map[string]interface{} {
	if node == nil {
		return nil
	}
	switch v := node[key].(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

func nodeString(node map[string]interface{}, key string) string {
	if node == nil {
		return ""
	}
	return toString(node[key])
}

func sizeFromProperties(product map[string]interface{}) string {
	if product == nil {
		return ""
	}
	props, ok := product["additionalProperty"].([]interface{})
	if !ok {
		return ""
	}
	for _, p := range props {
		prop, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(toString(prop["name"])), "size") {
			return toString(prop["value"])
		}
	}
	return ""
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NormalizeCondition maps free-text condition wording to the condition
// values used on stock units.
func NormalizeCondition(value string) string {
	lower := strings.ToLower(value)

	switch {
	case lower == "":
		return ""
	case strings.Contains(lower, "new") && strings.Contains(lower, "tag"):
		return "NEW_WITH_TAGS"
	case strings.Contains(lower, "new") && strings.Contains(lower, "defect"):
		return "NEW_WITH_DEFECTS"
	case strings.Contains(lower, "new"):
		return "NEW_WITHOUT_TAGS"
	case strings.Contains(lower, "like new"), strings.Contains(lower, "excellent"):
		return "LIKE_NEW"
	case strings.Contains(lower, "very good"):
		return "VERY_GOOD"
	case strings.Contains(lower, "good"):
		return "GOOD"
	case strings.Contains(lower, "acceptable"), strings.Contains(lower, "fair"):
		return "ACCEPTABLE"
	case strings.Contains(lower, "parts"), strings.Contains(lower, "not working"):
		return "FOR_PARTS_OR_NOT_WORKING"
	default:
		return ""
	}
}

// SourceFromHostname guesses the marketplace from the listing host.
func SourceFromHostname(hostname string) string {
	host := strings.ToLower(hostname)

	switch {
	case strings.Contains(host, "ebay."):
		return "eBay"
	case strings.Contains(host, "vinted."):
		return "Vinted"
	case strings.Contains(host, "depop."):
		return "Depop"
	case strings.Contains(host, "facebook."):
		return "Facebook Marketplace"
	case strings.Contains(host, "gumtree."):
		return "Gumtree"
	case strings.Contains(host, "amazon."):
		return "Amazon"
	case strings.Contains(host, "etsy."):
		return "Etsy"
	case strings.Contains(host, "tiktok."):
		return "TikTok Shop"
	case strings.Contains(host, "instagram."):
		return "Instagram"
	default:
		return ""
	}
}
