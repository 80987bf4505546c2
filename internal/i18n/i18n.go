// Package i18n localizes user-facing strings. French is the canonical
// locale of the product; other locales fall back to it message by message.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *goi18n.Bundle
	defaultLocale = "fr"
)

type localeKey struct{}

// Init loads the embedded locale files. The language of each file comes
// from its name (fr.json, en.json). defLocale overrides the built-in
// default when non-empty.
func Init(defLocale string) {
	if defLocale != "" {
		defaultLocale = defLocale
	}

	bundle = goi18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		log.Fatalf("i18n: glob locales: %v", err)
	}
	for _, name := range files {
		data, err := localeFS.ReadFile(name)
		if err != nil {
			log.Fatalf("i18n: read %s: %v", name, err)
		}
		bundle.MustParseMessageFileBytes(data, name)
	}
	log.Printf("i18n: %d locales loaded, default=%s", len(files), defaultLocale)
}

// WithLocale returns a context carrying the request locale ("fr", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale carried by ctx, or the default.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// T translates a message ID in the locale carried by ctx. Unknown ids come
// back as the id itself so a missing translation never blanks a message.
func T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	localizer := goi18n.NewLocalizer(bundle, LocaleFromContext(ctx))

	cfg := &goi18n.LocalizeConfig{MessageID: messageID}
	if len(templateData) > 0 && templateData[0] != nil {
		cfg.TemplateData = templateData[0]
	}

	msg, err := localizer.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
