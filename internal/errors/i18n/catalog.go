// Package i18n holds localized user-facing message catalogs for error codes.
package i18n

import (
	"bytes"
	"text/template"
)

// Code mirrors the error code string from internal/errors.
// It is duplicated as a plain string to avoid an import cycle.
type Code = string

// Catalog maps error codes to localized message templates.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog locale identifier.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with the given metadata.
// Unknown codes and template failures fall back to the raw code so callers
// always receive a non-empty message.
func (c *Catalog) Format(code string, metadata map[string]string) string {
	msg, ok := c.messages[code]
	if !ok {
		return code
	}
	if len(metadata) == 0 {
		return msg
	}

	tmpl, err := template.New(code).Parse(msg)
	if err != nil {
		return msg
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return msg
	}
	return buf.String()
}

// GetCatalog returns the catalog for the requested locale, defaulting to en-US.
func GetCatalog(locale string) *Catalog {
	if catalog, ok := catalogs[locale]; ok {
		return catalog
	}
	return enUSCatalog
}

var catalogs = map[string]*Catalog{
	"en-US": enUSCatalog,
}
