// Package testutil provides testing utilities for sprintpack tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CheckoutIssues is a small backlog with two epics, cross-epic dependencies
// and a closed issue, in every supported input format. All formats describe
// the same records.
var CheckoutIssues = map[string]string{
	"json": `{"issues": [
  {"key": "CART", "type": "Epic", "summary": "Cart"},
  {"key": "PAY", "type": "Epic", "summary": "Payments"},
  {"key": "CART-1", "summary": "Cart model", "points": 3, "priority": "High", "type": "Story", "epic": "CART"},
  {"key": "CART-2", "summary": "Cart API", "points": 2, "priority": "Medium", "type": "Story", "epic": "CART", "dependencies": ["CART-1"]},
  {"key": "CART-3", "summary": "Cart page", "points": 5, "priority": "Low", "type": "Story", "epic": "CART", "dependencies": ["CART-2"]},
  {"key": "PAY-1", "summary": "Payment provider", "points": 5, "priority": "Critical", "type": "Story", "epic": "PAY"},
  {"key": "PAY-2", "summary": "Checkout flow", "points": 3, "priority": "High", "type": "Story", "epic": "PAY", "dependencies": ["CART", "PAY-1"]},
  {"key": "OPS-1", "summary": "Dashboards", "points": 1, "priority": "Low", "type": "Task"},
  {"key": "OPS-2", "summary": "Old alerting", "points": 8, "type": "Task", "status": "Closed"}
]}`,
	"yaml": `issues:
  - {key: CART, type: Epic, summary: Cart}
  - {key: PAY, type: Epic, summary: Payments}
  - {key: CART-1, summary: Cart model, points: 3, priority: High, type: Story, epic: CART}
  - {key: CART-2, summary: Cart API, points: 2, priority: Medium, type: Story, epic: CART, dependencies: [CART-1]}
  - {key: CART-3, summary: Cart page, points: 5, priority: Low, type: Story, epic: CART, dependencies: [CART-2]}
  - {key: PAY-1, summary: Payment provider, points: 5, priority: Critical, type: Story, epic: PAY}
  - {key: PAY-2, summary: Checkout flow, points: 3, priority: High, type: Story, epic: PAY, dependencies: [CART, PAY-1]}
  - {key: OPS-1, summary: Dashboards, points: 1, priority: Low, type: Task}
  - {key: OPS-2, summary: Old alerting, points: 8, type: Task, status: Closed}
`,
	"toml": `[[issues]]
key = "CART"
type = "Epic"
summary = "Cart"

[[issues]]
key = "PAY"
type = "Epic"
summary = "Payments"

[[issues]]
key = "CART-1"
summary = "Cart model"
points = 3
priority = "High"
type = "Story"
epic = "CART"

[[issues]]
key = "CART-2"
summary = "Cart API"
points = 2
priority = "Medium"
type = "Story"
epic = "CART"
dependencies = ["CART-1"]

[[issues]]
key = "CART-3"
summary = "Cart page"
points = 5
priority = "Low"
type = "Story"
epic = "CART"
dependencies = ["CART-2"]

[[issues]]
key = "PAY-1"
summary = "Payment provider"
points = 5
priority = "Critical"
type = "Story"
epic = "PAY"

[[issues]]
key = "PAY-2"
summary = "Checkout flow"
points = 3
priority = "High"
type = "Story"
epic = "PAY"
dependencies = ["CART", "PAY-1"]

[[issues]]
key = "OPS-1"
summary = "Dashboards"
points = 1
priority = "Low"
type = "Task"

[[issues]]
key = "OPS-2"
summary = "Old alerting"
points = 8
type = "Task"
status = "Closed"
`,
	"csv": `Issue Key,Summary,Story Points,Priority,Issue Type,Epic Link,Depends On,Status
CART,Cart,,,Epic,,,
PAY,Payments,,,Epic,,,
CART-1,Cart model,3,High,Story,CART,,
CART-2,Cart API,2,Medium,Story,CART,CART-1,
CART-3,Cart page,5,Low,Story,CART,CART-2,
PAY-1,Payment provider,5,Critical,Story,PAY,,
PAY-2,Checkout flow,3,High,Story,PAY,"CART,PAY-1",
OPS-1,Dashboards,1,Low,Task,,,
OPS-2,Old alerting,8,,Task,,,Closed
`,
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteIssues writes CheckoutIssues in the given format to a new temporary
// directory and returns the file path.
func WriteIssues(t *testing.T, format string) string {
	t.Helper()

	content, ok := CheckoutIssues[format]
	if !ok {
		t.Fatalf("no checkout issues in format %q", format)
	}
	return WriteFile(t, t.TempDir(), "issues."+format, content)
}

// IsolateConfig points XDG_CONFIG_HOME at a temporary directory so tests
// never read or write the user's configuration. It returns that directory.
func IsolateConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}
