package preview

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// ThemeName identifies the builder's own theme in a go-theme provider.
const ThemeName = "builder"

// Variant names; they track the document's appearance setting.
const (
	VariantLight = "light"
	VariantDark  = "dark"
)

const (
	lightOverlay = "linear-gradient(0deg, rgba(255,255,255,.65), rgba(255,255,255,.65))"
	darkOverlay  = "linear-gradient(0deg, rgba(7,11,20,.45), rgba(7,11,20,.45))"
)

// BuilderManifest describes the builder theme for a brand color. The dark
// variant swaps the background overlay; everything else inherits.
func BuilderManifest(brand string) *theme.Manifest {
	if strings.TrimSpace(brand) == "" {
		brand = schema.DefaultBrand
	}
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      brand,
			"bg-overlay": lightOverlay,
		},
		Variants: map[string]theme.Variant{
			VariantLight: {},
			VariantDark: {
				Tokens: map[string]string{
					"bg-overlay": darkOverlay,
				},
			},
		},
	}
}

// NewProvider registers the builder manifest in a fresh go-theme registry.
func NewProvider(brand string) (theme.ThemeProvider, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(BuilderManifest(brand)); err != nil {
		return nil, fmt.Errorf("preview: register builder theme: %w", err)
	}
	return registry, nil
}

// Selector resolves theme/variant pairs from a fixed manifest set. It
// satisfies the go-theme selector contract so hosts can swap in a richer
// implementation.
type Selector struct {
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector indexes the given manifests by name.
func NewSelector(manifests ...*theme.Manifest) *Selector {
	indexed := make(map[string]*theme.Manifest, len(manifests))
	for _, m := range manifests {
		if m != nil {
			indexed[m.Name] = m
		}
	}
	return &Selector{manifests: indexed}
}

// Select returns the selection for a theme name and variant. An empty name
// falls back to the builder theme; an unknown variant falls back to light.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = ThemeName
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("preview: unknown theme %q", name)
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = VariantLight
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// CSSVars flattens a selection into CSS custom properties. Variant tokens
// override base tokens.
func CSSVars(sel *theme.Selection) map[string]string {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	vars := make(map[string]string, len(sel.Manifest.Tokens))
	for key, value := range sel.Manifest.Tokens {
		vars["--"+key] = value
	}
	if variant, ok := sel.Manifest.Variants[sel.Variant]; ok {
		for key, value := range variant.Tokens {
			vars["--"+key] = value
		}
	}
	return vars
}

// EffectiveAppearance collapses the document's appearance setting to light
// or dark. Auto follows the host's reported system preference.
func EffectiveAppearance(doc schema.Schema, systemDark bool) string {
	switch doc.Theme.Appearance {
	case schema.AppearanceDark:
		return VariantDark
	case schema.AppearanceLight:
		return VariantLight
	default:
		if systemDark {
			return VariantDark
		}
		return VariantLight
	}
}

// Background is the resolved page background: at most one of Image and
// Color is set; both empty means the stylesheet default applies.
type Background struct {
	Image string
	Color string
}

// BackgroundFor computes the page background from the display style
// setting. The image style layers an appearance-matched overlay over the
// uploaded picture; solid falls back brand-ward when no color is chosen.
func BackgroundFor(doc schema.Schema, dark bool) Background {
	style := backgroundStyle(doc)
	switch {
	case style == "image" && doc.BG != "":
		overlay := lightOverlay
		if dark {
			overlay = darkOverlay
		}
		return Background{Image: overlay + ", url('" + doc.BG + "')"}
	case style == "solid":
		color := doc.BGColor
		if color == "" {
			color = doc.Theme.Brand
		}
		if color == "" {
			color = schema.DefaultBrand
		}
		return Background{Color: color}
	default:
		return Background{}
	}
}

func backgroundStyle(doc schema.Schema) string {
	display, ok := doc.Settings["display"].(map[string]any)
	if !ok {
		return "gradient"
	}
	style, ok := display["bg_style"].(string)
	if !ok || style == "" {
		return "gradient"
	}
	return style
}
