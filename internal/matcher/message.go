// ABOUTME: Composes the assistant chat message for a recommendation result
// ABOUTME: Tone picks the wording only; the selected content is already fixed
package matcher

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/harper/devotional/internal/models"
)

const (
	ToneEncouraging = "encouraging"
	ToneDirect      = "direct"
	ToneGentle      = "gentle"
)

var toneTemplates = map[string]*template.Template{
	ToneEncouraging: template.Must(template.New(ToneEncouraging).Parse(
		`You are not alone in this. {{.Reference}} says: "{{.Verse}}"{{if .Explanation}} {{.Explanation}}{{end}}{{if .Also}} You might also read {{.Also}}.{{end}}`)),
	ToneDirect: template.Must(template.New(ToneDirect).Parse(
		`{{.Reference}}: "{{.Verse}}"{{if .Also}} See also {{.Also}}.{{end}}`)),
	ToneGentle: template.Must(template.New(ToneGentle).Parse(
		`Take a slow breath. Here is something to hold onto, from {{.Reference}}: "{{.Verse}}"{{if .Also}} When you are ready, {{.Also}} may help too.{{end}}`)),
	"": template.Must(template.New("default").Parse(
		`Here is a verse for you from {{.Reference}}: "{{.Verse}}"{{if .Explanation}} {{.Explanation}}{{end}}`)),
}

// Tones lists the named tones
func Tones() []string {
	return []string{ToneEncouraging, ToneDirect, ToneGentle}
}

type messageData struct {
	Reference   string
	Verse       string
	Explanation string
	Also        string
}

// Compose renders the assistant message for a result, timestamped now
func (m *Matcher) Compose(profile models.UserProfile, result Result) (models.ChatMessage, error) {
	return ComposeAt(profile, result, time.Now().UTC())
}

// ComposeAt renders the assistant message with an explicit timestamp
func ComposeAt(profile models.UserProfile, result Result, at time.Time) (models.ChatMessage, error) {
	text, err := Render(profile.Normalize().Tone, result)
	if err != nil {
		return models.ChatMessage{}, err
	}
	return models.NewChatMessageAt(text, false, at)
}

// Render produces the message text for a tone. Unknown tones use the default wording.
func Render(tone string, result Result) (string, error) {
	top, ok := result.Top()
	if !ok {
		return "", models.ErrNoContentAvailable
	}

	tmpl, ok := toneTemplates[tone]
	if !ok {
		tmpl = toneTemplates[""]
	}

	var also []string
	for _, rec := range result.Recommendations[1:] {
		also = append(also, rec.Item.Reference)
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, messageData{
		Reference:   top.Item.Reference,
		Verse:       top.Item.Verse,
		Explanation: top.Item.Explanation,
		Also:        strings.Join(also, " and "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
