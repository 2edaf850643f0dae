package document

import (
	"github.com/emirozbir/alert2jira/internal/models"
)

const (
	titleLevel   = 2
	sectionLevel = 3

	titlePrefix = "SIEM Alert: "

	// Jira rejects summaries longer than this many characters.
	maxSummaryLen = 255
)

type fieldSpec struct {
	label string
	path  string
}

var alertDetailFields = []fieldSpec{
	{"Rule ID", "rule.id"},
	{"Level", "rule.level"},
	{"Description", "rule.description"},
	{"Timestamp", "timestamp"},
	{"Rule Groups", "rule.groups"},
	{"Rule Fired Times", "rule.firedtimes"},
	{"Rule Info", "rule.info"},
}

var agentFields = []fieldSpec{
	{"Agent Name", "agent.name"},
	{"Agent ID", "agent.id"},
	{"Agent IP", "agent.ip"},
	{"Agent Version", "agent.version"},
}

var networkFields = []fieldSpec{
	{"Source IP", "srcip"},
	{"Source Port", "srcport"},
	{"Destination IP", "dstip"},
	{"Destination Port", "dstport"},
}

var contextFields = []fieldSpec{
	{"User", "user"},
	{"Process", "process"},
	{"File", "file"},
	{"URL", "url"},
}

// Title is the ticket heading for the alert.
func Title(alert *models.Alert) string {
	return titlePrefix + alert.Description()
}

// Summary is the title cut down to Jira's summary limit.
func Summary(alert *models.Alert) string {
	title := []rune(Title(alert))
	if len(title) <= maxSummaryLen {
		return string(title)
	}
	return string(title[:maxSummaryLen-3]) + "..."
}

// Render builds the ticket description for an alert. It never fails:
// missing fields become placeholders or are left out.
func Render(alert *models.Alert) Document {
	b := &builder{}
	b.heading(titleLevel, Title(alert))

	b.section("Alert Details", strictTable(alert, alertDetailFields))
	b.section("Agent Information", strictTable(alert, agentFields))

	if alert.Has("manager") {
		b.section("Manager Information", NewTable().Add("Manager Name", alert.Lookup("manager.name")))
	}

	if anyPresent(alert, networkFields) {
		b.section("Source/Destination Information", presentTable(alert, networkFields))
	}

	if data := alert.Get("data"); data.Present() {
		t := NewTable()
		data.Each(func(key string, value models.Field) bool {
			if value.Truthy() {
				t.Add(key, value.Text())
			}
			return true
		})
		b.section("Event Data", t)
	}

	if tags := alert.Get("tags"); tags.Present() {
		b.section("Tags", NewTable().Add("Tags", tags.Join(", ")))
	}

	if full := alert.Get("full_log"); full.Present() {
		b.section("Full Log", NewTable().Add("Full Log", full.Text()))
	}

	if loc := alert.Get("location"); loc.Present() {
		b.section("Location", NewTable().Add("Location", loc.Text()))
	}

	if anyPresent(alert, contextFields) {
		b.section("Additional Context", presentTable(alert, contextFields))
	}

	return b.build()
}

// strictTable includes a row only for truthy values other than the placeholder.
func strictTable(alert *models.Alert, fields []fieldSpec) *Table {
	t := NewTable()
	for _, f := range fields {
		field := alert.Get(f.path)
		if !field.Truthy() {
			continue
		}
		value := field.Join(", ")
		if value == "" || value == models.Placeholder {
			continue
		}
		t.Add(f.label, value)
	}
	return t
}

// presentTable includes a row for every field that exists, even if empty.
func presentTable(alert *models.Alert, fields []fieldSpec) *Table {
	t := NewTable()
	for _, f := range fields {
		if field := alert.Get(f.path); field.Present() {
			t.Add(f.label, field.Text())
		}
	}
	return t
}

func anyPresent(alert *models.Alert, fields []fieldSpec) bool {
	for _, f := range fields {
		if alert.Has(f.path) {
			return true
		}
	}
	return false
}
