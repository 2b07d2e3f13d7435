// Package review renders the final-step projection for display. Labels and
// values pass through a strict sanitizer since form definitions may come from
// untrusted documents, and an optional theme configuration contributes CSS
// variables to the HTML output.
package review

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/steps"
)

const defaultTemplate = `<section class="formflow-review">
{% if themeStyle %}<style>{{ themeStyle|safe }}</style>{% endif %}
{% if title %}<h2>{{ title }}</h2>{% endif %}
<dl>
{% for item in items %}  <dt>{{ item.label }}</dt>
  <dd>{{ item.value }}</dd>
{% endfor %}</dl>
</section>
`

// Option customises the renderer.
type Option func(*Renderer)

// WithTemplate overrides the built-in pongo2 template source.
func WithTemplate(source string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(source) != "" {
			r.source = source
		}
	}
}

// WithTheme attaches a go-theme renderer configuration whose CSS variables
// are emitted alongside the HTML output.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithTitle sets the heading shown above the review listing.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// Renderer turns a steps.Review into HTML or plain text.
type Renderer struct {
	source   string
	title    string
	theme    *theme.RendererConfig
	template *pongo2.Template
	policy   *bluemonday.Policy
}

// New constructs a Renderer, compiling the template eagerly so configuration
// errors surface at startup rather than first render.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		source: defaultTemplate,
		title:  "Review your details",
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	set := pongo2.NewSet("formflow-review", pongo2.DefaultLoader)
	tpl, err := set.FromString(r.source)
	if err != nil {
		return nil, fmt.Errorf("review: parse template: %w", err)
	}
	r.template = tpl
	return r, nil
}

// RenderHTML renders the projection as an HTML fragment.
func (r *Renderer) RenderHTML(review steps.Review) ([]byte, error) {
	items := make([]map[string]any, 0, len(review.Items))
	for _, item := range review.Items {
		items = append(items, map[string]any{
			"name":  item.Name,
			"label": r.sanitize(item.Label),
			"value": r.sanitize(item.Value),
		})
	}

	out, err := r.template.Execute(pongo2.Context{
		"title":      r.sanitize(r.title),
		"items":      items,
		"themeStyle": cssVarsStyle(r.theme),
		"themeJSON":  themeJSON(r.theme),
	})
	if err != nil {
		return nil, fmt.Errorf("review: execute template: %w", err)
	}
	return []byte(out), nil
}

// RenderText renders the projection as label/value lines for terminal hosts.
func (r *Renderer) RenderText(review steps.Review) string {
	var b strings.Builder
	for _, item := range review.Items {
		b.WriteString(r.sanitize(item.Label))
		b.WriteString(": ")
		b.WriteString(r.sanitize(item.Value))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) sanitize(raw string) string {
	return strings.TrimSpace(r.policy.Sanitize(raw))
}

func cssVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(cfg.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func themeJSON(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	payload := struct {
		Name    string            `json:"name,omitempty"`
		Variant string            `json:"variant,omitempty"`
		Tokens  map[string]string `json:"tokens,omitempty"`
		CSSVars map[string]string `json:"cssVars,omitempty"`
	}{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}
