package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirozbir/alert2jira/internal/models"
)

func mustAlert(t *testing.T, raw string) *models.Alert {
	t.Helper()
	alert, err := models.ParseAlert([]byte(raw))
	require.NoError(t, err)
	return alert
}

func TestRenderEndToEnd(t *testing.T) {
	alert := mustAlert(t, `{
		"rule": {"description": "Test Alert", "id": "100", "level": 5},
		"agent": {"name": "agent01", "id": "001"},
		"timestamp": "2024-01-01T00:00:00"
	}`)

	doc := Render(alert)

	assert.Equal(t, "SIEM Alert: Test Alert", doc.Title())
	assert.Equal(t, []string{"Alert Details", "Agent Information"}, doc.Sections())

	details, ok := doc.Section("Alert Details")
	require.True(t, ok)
	assert.Equal(t, [][2]string{
		{"Rule ID", "100"},
		{"Level", "5"},
		{"Description", "Test Alert"},
		{"Timestamp", "2024-01-01T00:00:00"},
	}, details.DataRows())

	agent, ok := doc.Section("Agent Information")
	require.True(t, ok)
	assert.Equal(t, [][2]string{
		{"Agent Name", "agent01"},
		{"Agent ID", "001"},
	}, agent.DataRows())
}

func TestRenderDescriptionOnly(t *testing.T) {
	doc := Render(mustAlert(t, `{"rule": {"description": "Only description"}}`))

	blocks := doc.Blocks()
	require.Len(t, blocks, 5)
	assert.Equal(t, Heading(titleLevel, "SIEM Alert: Only description"), blocks[0])

	details, ok := doc.Section("Alert Details")
	require.True(t, ok)
	assert.Equal(t, [][2]string{{"Description", "Only description"}}, details.DataRows())

	agent, ok := doc.Section("Agent Information")
	require.True(t, ok)
	assert.Empty(t, agent.DataRows())
	require.Len(t, agent.Rows(), 1)
	assert.True(t, agent.Rows()[0].Header)
}

func TestRenderMissingDescription(t *testing.T) {
	doc := Render(mustAlert(t, `{}`))

	assert.Equal(t, "SIEM Alert: N/A", doc.Title())
	assert.Equal(t, []string{"Alert Details", "Agent Information"}, doc.Sections())

	details, _ := doc.Section("Alert Details")
	assert.Empty(t, details.DataRows())
}

func TestRenderStrictFiltering(t *testing.T) {
	doc := Render(mustAlert(t, `{
		"rule": {"description": "d", "id": "", "level": 0, "groups": [], "firedtimes": null, "info": "N/A"},
		"agent": {"name": "N/A", "id": false, "ip": "10.0.0.1"}
	}`))

	details, _ := doc.Section("Alert Details")
	assert.Equal(t, [][2]string{{"Description", "d"}}, details.DataRows())

	agent, _ := doc.Section("Agent Information")
	assert.Equal(t, [][2]string{{"Agent IP", "10.0.0.1"}}, agent.DataRows())
}

func TestRenderRuleGroups(t *testing.T) {
	doc := Render(mustAlert(t, `{"rule": {"description": "d", "groups": ["syslog", "sshd", "authentication_failed"], "firedtimes": 3}}`))

	details, _ := doc.Section("Alert Details")
	groups, ok := details.Value("Rule Groups")
	require.True(t, ok)
	assert.Equal(t, "syslog, sshd, authentication_failed", groups)

	fired, ok := details.Value("Rule Fired Times")
	require.True(t, ok)
	assert.Equal(t, "3", fired)
}

func TestRenderManagerSection(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, doc Document)
	}{
		{
			name: "absent",
			raw:  `{"rule": {"description": "d"}}`,
			check: func(t *testing.T, doc Document) {
				_, ok := doc.Section("Manager Information")
				assert.False(t, ok)
				assert.NotContains(t, doc.Sections(), "Manager Information")
			},
		},
		{
			name: "with name",
			raw:  `{"manager": {"name": "wazuh-manager"}}`,
			check: func(t *testing.T, doc Document) {
				table, ok := doc.Section("Manager Information")
				require.True(t, ok)
				assert.Equal(t, [][2]string{{"Manager Name", "wazuh-manager"}}, table.DataRows())
			},
		},
		{
			name: "without name",
			raw:  `{"manager": {}}`,
			check: func(t *testing.T, doc Document) {
				table, ok := doc.Section("Manager Information")
				require.True(t, ok)
				assert.Equal(t, [][2]string{{"Manager Name", "N/A"}}, table.DataRows())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Render(mustAlert(t, tt.raw)))
		})
	}
}

func TestRenderSourceDestination(t *testing.T) {
	doc := Render(mustAlert(t, `{"srcip": "192.168.1.10", "dstport": "", "srcport": 5555}`))

	table, ok := doc.Section("Source/Destination Information")
	require.True(t, ok)
	assert.Equal(t, [][2]string{
		{"Source IP", "192.168.1.10"},
		{"Source Port", "5555"},
		{"Destination Port", ""},
	}, table.DataRows())

	doc = Render(mustAlert(t, `{"rule": {"description": "d"}}`))
	_, ok = doc.Section("Source/Destination Information")
	assert.False(t, ok)
}

func TestRenderEventData(t *testing.T) {
	doc := Render(mustAlert(t, `{"data": {"zeta": "1", "empty": "", "alpha": "2", "zero": 0, "srcuser": "root"}}`))

	table, ok := doc.Section("Event Data")
	require.True(t, ok)
	assert.Equal(t, [][2]string{
		{"zeta", "1"},
		{"alpha", "2"},
		{"srcuser", "root"},
	}, table.DataRows())
}

func TestRenderEventDataEmptyMapping(t *testing.T) {
	doc := Render(mustAlert(t, `{"data": {}}`))

	table, ok := doc.Section("Event Data")
	require.True(t, ok)
	assert.Empty(t, table.DataRows())
}

func TestRenderTags(t *testing.T) {
	doc := Render(mustAlert(t, `{"tags": ["pci_dss", "gdpr", "hipaa"]}`))

	table, ok := doc.Section("Tags")
	require.True(t, ok)
	assert.Equal(t, [][2]string{{"Tags", "pci_dss, gdpr, hipaa"}}, table.DataRows())
}

func TestRenderSingleValueSections(t *testing.T) {
	doc := Render(mustAlert(t, `{
		"rule": {"description": "d"},
		"full_log": "Jan  1 00:00:00 host sshd[1]: Failed password",
		"location": "/var/log/auth.log"
	}`))

	assert.Equal(t, []string{"Alert Details", "Agent Information", "Full Log", "Location"}, doc.Sections())

	full, _ := doc.Section("Full Log")
	assert.Equal(t, [][2]string{{"Full Log", "Jan  1 00:00:00 host sshd[1]: Failed password"}}, full.DataRows())

	loc, _ := doc.Section("Location")
	assert.Equal(t, [][2]string{{"Location", "/var/log/auth.log"}}, loc.DataRows())
}

func TestRenderAdditionalContext(t *testing.T) {
	doc := Render(mustAlert(t, `{"url": "http://example.com", "user": "alice", "file": ""}`))

	table, ok := doc.Section("Additional Context")
	require.True(t, ok)
	assert.Equal(t, [][2]string{
		{"User", "alice"},
		{"File", ""},
		{"URL", "http://example.com"},
	}, table.DataRows())
}

func TestRenderSectionOrder(t *testing.T) {
	doc := Render(mustAlert(t, `{
		"url": "u", "location": "l", "full_log": "f", "tags": ["t"], "data": {"k": "v"},
		"dstip": "1.1.1.1", "manager": {"name": "m"}, "agent": {"name": "a"},
		"rule": {"description": "d"}
	}`))

	assert.Equal(t, []string{
		"Alert Details",
		"Agent Information",
		"Manager Information",
		"Source/Destination Information",
		"Event Data",
		"Tags",
		"Full Log",
		"Location",
		"Additional Context",
	}, doc.Sections())
}

func TestRenderIdempotent(t *testing.T) {
	alert := mustAlert(t, `{"rule": {"description": "d", "groups": ["a"]}, "data": {"x": "y"}, "tags": ["t"]}`)

	assert.Equal(t, Render(alert), Render(alert))
}

func TestSummaryTruncation(t *testing.T) {
	long := strings.Repeat("x", 400)
	alert := mustAlert(t, `{"rule": {"description": "`+long+`"}}`)

	summary := Summary(alert)
	assert.Len(t, []rune(summary), maxSummaryLen)
	assert.True(t, strings.HasPrefix(summary, "SIEM Alert: xxx"))
	assert.True(t, strings.HasSuffix(summary, "..."))

	assert.Equal(t, "SIEM Alert: short", Summary(mustAlert(t, `{"rule": {"description": "short"}}`)))
}
