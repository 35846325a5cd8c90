// ABOUTME: End-to-end tests for the cobra command tree
// ABOUTME: Each test drives the real commands against a temporary record store
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`\(ID: (\d+)\)`)

type harness struct {
	t      *testing.T
	driver string
	path   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, driver: "sqlite", path: filepath.Join(t.TempDir(), "crm.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var buf bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	base := []string{"--driver", h.driver, "--log-level", "error"}
	if h.path != "" {
		base = append(base, "--db-path", h.path)
	}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) createdID(out string) string {
	h.t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(h.t, m, 2, out)
	return m[1]
}

func TestDealLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("contact", "add", "--name", "Grace Hopper", "--email", "grace@navy.example", "--company", "Navy")
	assert.Contains(t, out, "✓ Contact created: Grace Hopper")

	out = h.mustRun("deal", "add", "--title", "Compiler licence", "--value", "12000", "--contact", "grace@navy.example")
	assert.Contains(t, out, "✓ Deal created: Compiler licence")
	assert.Contains(t, out, "Value: $12,000")
	assert.Contains(t, out, "Stage: Prospecting")
	dealID := h.createdID(out)

	out = h.mustRun("deal", "list", "--query", "compiler")
	assert.Contains(t, out, "Compiler licence")
	assert.Contains(t, out, "Grace Hopper")

	out = h.mustRun("deal", "move", dealID, "Proposal")
	assert.Contains(t, out, "✓ Deal "+dealID+" is now in Proposal")

	out = h.mustRun("board", "--plain")
	assert.Contains(t, out, "Proposal (1, $12,000)")
	assert.Contains(t, out, "#"+dealID+" Compiler licence")
	assert.Contains(t, out, "Pipeline: 1 deals worth $12,000")

	h.mustRun("deal", "move", dealID, "Closed Won")

	out = h.mustRun("dashboard", "--range", "thisMonth")
	assert.Contains(t, out, "CRM DASHBOARD")
	assert.Contains(t, out, "$12,000")

	out = h.mustRun("dashboard", "--json")
	var d map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "thisMonth", d["window"])
	assert.EqualValues(t, 1, d["total_contacts"])

	out = h.mustRun("activity", "list")
	assert.Contains(t, out, "Compiler licence")

	out = h.mustRun("deal", "delete", dealID)
	assert.Contains(t, out, "deleted")
	out = h.mustRun("deal", "list")
	assert.NotContains(t, out, "Compiler licence")
}

func TestDealErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("deal", "add", "--title", "Orphan", "--value", "10", "--contact", "nobody")
	assert.Error(t, err)

	_, err = h.run("deal", "move", "abc", "Proposal")
	assert.Error(t, err)

	_, err = h.run("deal", "move", "999", "Proposal")
	assert.Error(t, err)

	_, err = h.run("dashboard", "--range", "decade")
	assert.Error(t, err)
}

func TestLeadConversion(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("lead", "add", "--name", "David Park", "--company", "Park Industries",
		"--email", "david@park.example", "--phone", "555-0100", "--source", "referral")
	assert.Contains(t, out, "✓ Lead created: David Park")
	assert.Contains(t, out, "Source: Referral")
	leadID := h.createdID(out)

	out = h.mustRun("lead", "list", "--status", "New")
	assert.Contains(t, out, "David Park")

	out = h.mustRun("lead", "convert", leadID)
	assert.Contains(t, out, "converted to contact David Park")

	out = h.mustRun("lead", "list")
	assert.NotContains(t, out, "David Park")

	out = h.mustRun("contact", "list", "--type", "lead")
	assert.Contains(t, out, "David Park")

	_, err := h.run("lead", "convert", leadID)
	assert.Error(t, err)
}

func TestTasksAndActivities(t *testing.T) {
	h := newHarness(t)
	h.mustRun("contact", "add", "--name", "Ada Lovelace", "--email", "ada@example.com", "--company", "Engines")

	out := h.mustRun("task", "add", "--title", "Send quote", "--due", "now", "--contact", "Ada Lovelace")
	assert.Contains(t, out, "✓ Task created: Send quote")
	taskID := h.createdID(out)

	out = h.mustRun("task", "add", "--title", "Chase invoice", "--due", "2020-01-01")
	assert.Contains(t, out, "Due: 2020-01-01")

	out = h.mustRun("task", "list")
	assert.Contains(t, out, "Send quote")
	assert.Contains(t, out, "2 tasks: 0 completed, 1 due today, 1 overdue")

	out = h.mustRun("task", "toggle", taskID)
	assert.Contains(t, out, "is now completed")

	_, err := h.run("task", "add", "--title", "No due date")
	assert.Error(t, err)

	out = h.mustRun("activity", "log", "--type", "call_made", "--description", "Intro call", "--contact", "ada@example.com")
	assert.Contains(t, out, "✓ Logged call_made")

	out = h.mustRun("activity", "list", "--type", "call_made")
	assert.Contains(t, out, "Intro call")
	assert.NotContains(t, out, "Send quote")
}

func TestCompanies(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("company", "add", "--name", "Innovate Labs", "--website", "https://innovate.example", "--type", "lead")
	assert.Contains(t, out, "✓ Company created: Innovate Labs")
	assert.Contains(t, out, "Website: https://innovate.example")

	out = h.mustRun("company", "list", "--type", "lead")
	assert.Contains(t, out, "Innovate Labs")
	out = h.mustRun("company", "list", "--type", "customer")
	assert.NotContains(t, out, "Innovate Labs")
}

func TestSeedAndViz(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("seed", filepath.Join("..", "examples", "seed.yaml"))
	assert.Contains(t, out, "✓ Seeded 2 companies, 3 contacts")

	out = h.mustRun("board", "--plain")
	assert.Contains(t, out, "Pipeline:")

	out = h.mustRun("viz", "pipeline")
	assert.Contains(t, out, "digraph")

	_, err := h.run("viz", "pipeline", "--format", "svg")
	assert.ErrorContains(t, err, "--output is required")

	_, err = h.run("viz", "pipeline", "--format", "gif")
	assert.ErrorContains(t, err, "unknown format")

	svg := filepath.Join(t.TempDir(), "pipeline.svg")
	out = h.mustRun("viz", "pipeline", "--format", "svg", "--output", svg)
	assert.Contains(t, out, "✓ Pipeline graph written to")
	info, err := os.Stat(svg)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = h.run("seed", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBadgerDriverPersists(t *testing.T) {
	h := &harness{t: t, driver: "badger", path: filepath.Join(t.TempDir(), "crm.badger")}

	out := h.mustRun("contact", "add", "--name", "Grace Hopper", "--email", "grace@navy.example", "--company", "Navy")
	contactID := h.createdID(out)
	h.mustRun("deal", "add", "--title", "Mainframe", "--value", "5000", "--contact", contactID, "--stage", "negotiation")

	out = h.mustRun("board", "--plain")
	assert.Contains(t, out, "Negotiation (1, $5,000)")
}

func TestMemoryDriverStartsEmpty(t *testing.T) {
	h := &harness{t: t, driver: "memory"}

	h.mustRun("contact", "add", "--name", "Grace Hopper", "--email", "grace@navy.example", "--company", "Navy")
	out := h.mustRun("contact", "list")
	assert.NotContains(t, out, "Grace Hopper")
}

func TestParseHelpers(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("-1")
	assert.Error(t, err)

	v, err := parseMoney("1250.50")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", v.String())

	_, err = parseMoney("lots")
	assert.Error(t, err)

}
