package naming

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/ersonp/dex-core/internal/domain/entities"
)

// Synonym maps a form fragment to its image slug. A Token synonym only
// matches a whole word of the form, split on spaces and hyphens.
type Synonym struct {
	Key   string
	Slug  string
	Token bool
}

// FormSynonyms is matched in slice order, so iteration order is part of the
// contract. Multi-word Mega keys come first, then named forms. The
// single-letter Mega suffixes are whole-word matches ahead of the bare
// "mega" key, so "mega-charizard-x" resolves to mega-x while "sandy" and
// "Zygarde50%" are left alone.
var FormSynonyms = []Synonym{
	{Key: "mega x", Slug: "mega-x"},
	{Key: "mega-x", Slug: "mega-x"},
	{Key: "mega y", Slug: "mega-y"},
	{Key: "mega-y", Slug: "mega-y"},
	{Key: "primal", Slug: "primal"},
	{Key: "incarnate", Slug: "incarnate"},
	{Key: "therian", Slug: "therian"},
	{Key: "land", Slug: "land"},
	{Key: "sky", Slug: "sky"},
	{Key: "origin", Slug: "origin"},
	{Key: "altered", Slug: "altered"},
	{Key: "attack", Slug: "attack"},
	{Key: "defense", Slug: "defense"},
	{Key: "speed", Slug: "speed"},
	{Key: "normal", Slug: "normal"},
	{Key: "blade", Slug: "blade"},
	{Key: "shield", Slug: "shield"},
	{Key: "black", Slug: "black"},
	{Key: "white", Slug: "white"},
	{Key: "zen", Slug: "zen"},
	{Key: "standard", Slug: "standard"},
	{Key: "plant", Slug: "plant"},
	{Key: "sandy", Slug: "sandy"},
	{Key: "trash", Slug: "trash"},
	{Key: "ordinary", Slug: "ordinary"},
	{Key: "resolute", Slug: "resolute"},
	{Key: "aria", Slug: "aria"},
	{Key: "pirouette", Slug: "pirouette"},
	{Key: "average", Slug: "average"},
	{Key: "small", Slug: "small"},
	{Key: "large", Slug: "large"},
	{Key: "super", Slug: "super"},
	{Key: "confined", Slug: "confined"},
	{Key: "unbound", Slug: "unbound"},
	{Key: "x", Slug: "mega-x", Token: true},
	{Key: "y", Slug: "mega-y", Token: true},
	{Key: "mega", Slug: "mega"},
}

// CanonicalizeForm maps a raw form to the slug used in image keys. It never
// fails: unknown forms fall back to a hyphenated version of themselves.
func CanonicalizeForm(form string) string {
	if form == entities.BaseForm {
		return entities.BaseForm
	}

	cleaned := strings.ToLower(form)
	cleaned = strings.ReplaceAll(cleaned, "forme", "")
	cleaned = strings.ReplaceAll(cleaned, "form", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == entities.BaseForm {
		return entities.BaseForm
	}

	words := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	for _, syn := range FormSynonyms {
		if syn.Token && slices.Contains(words, syn.Key) {
			return syn.Slug
		}
		if !syn.Token && strings.Contains(cleaned, syn.Key) {
			return syn.Slug
		}
	}

	return strings.Join(strings.Fields(cleaned), "-")
}

// ImageKey returns the artwork file name for a creature id and form slug.
func ImageKey(id int, slug string) string {
	if slug == "" || slug == entities.BaseForm {
		return entities.PlainImageKey(id)
	}
	return fmt.Sprintf("%d-%s%s", id, slug, entities.ImageExt)
}

// Triple decomposes a display name and returns the base name, the
// canonical form slug and the image key for the given id.
func Triple(id int, name string) (base, form, imageKey string) {
	base, raw := Decompose(name)
	form = CanonicalizeForm(raw)
	return base, form, ImageKey(id, form)
}
