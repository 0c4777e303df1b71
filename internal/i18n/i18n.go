// Copyright (c) 2026 Keymaster Team
// Interlock - two-key launch interlock controller
// This source code is licensed under the MIT license found in the LICENSE file.

// Package i18n provides internationalization and localization support for the
// interlock operator consoles. It uses the go-i18n library to load and manage
// translation files, allowing state labels and console text to be displayed
// in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

var currentLang string

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		_, _ = bundle.ParseMessageFileBytes(data, f.Name())
	}

	currentLang = lang
	localizer = i18n.NewLocalizer(bundle, lang)
}

// T translates a message by its ID. A single map argument is passed as
// template data; any other arguments are applied with fmt.Sprintf.
// If a translation for the given ID is not found, it returns the ID itself.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			cfg.TemplateData = data
			args = nil
		}
	}
	msg, err := localizer.Localize(cfg)
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetLang returns the language passed to the last Init.
func GetLang() string {
	return currentLang
}

// GetAvailableLocales maps each embedded locale tag to its self-name.
func GetAvailableLocales() map[string]string {
	if bundle == nil {
		Init("en")
	}
	out := make(map[string]string)
	for _, tag := range bundle.LanguageTags() {
		name := display.Self.Name(tag)
		if name == "" {
			name = tag.String()
		}
		out[tag.String()] = name
	}
	return out
}

// LocaleTags returns the embedded locale tags, sorted.
func LocaleTags() []string {
	av := GetAvailableLocales()
	tags := make([]string, 0, len(av))
	for k := range av {
		tags = append(tags, k)
	}
	sort.Strings(tags)
	return tags
}

// StateLabel returns the translated label for a state name such as
// "WAITING_FOR_FIRST_KEY".
func StateLabel(state string) string {
	return T("state." + strings.ToLower(state))
}
