package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscrub/pii"
)

const sampleConfig = `{
	"rules": {
		"device_id": {"type": "pattern", "pattern": "d/[a-f0-9]{12}", "redaction": {"method": "replace", "text": "[device-id]"}}
	},
	"applications": {
		"ip": ["@ip:replace"],
		"email": ["@email:mask"],
		"username": ["@username:replace"],
		"databag": ["@password", "@creditcard"],
		"freeform": ["device_id", "@ip:replace"]
	}
}`

func newTestProcessor(t *testing.T) pii.PiiProcessorAdapter {
	t.Helper()
	cfg, err := pii.LoadPiiConfig([]byte(sampleConfig))
	require.NoError(t, err)
	return pii.PiiProcessorAdapter{Inner: pii.NewRuleProcessor(cfg, func(format string, args ...any) {
		t.Logf("rule lookup warning: "+format, args...)
	})}
}

const sampleEventJSON = `{
	"event_id": "abc123",
	"timestamp": 1700000000,
	"message": "request failed",
	"logger": "app.server",
	"level": "error",
	"platform": "go",
	"server_name": "web-07",
	"release": "1.2.3",
	"environment": "production",
	"user": {
		"id": "u-1",
		"username": "jdoe",
		"email": "jdoe@example.com",
		"ip_address": "127.0.0.1",
		"geo": {"city": "Berlin", "region": "BE", "country": "DE"},
		"extra": {"password": "hunter2", "plan": "pro"}
	},
	"request": {
		"url": "https://example.com/api",
		"method": "POST",
		"query_string": "token=abc",
		"cookies": "session=xyz",
		"headers": {"Authorization": "Bearer secret"},
		"data": {"card": "4111-1111-1111-1111"}
	},
	"tags": {"release": "1.2.3"},
	"extra": {"note": "contact jdoe@example.com"},
	"contexts": {"os": {"name": "linux"}},
	"breadcrumbs": [
		{"type": "http", "category": "fetch", "message": "GET /health", "data": {}}
	],
	"exception": [
		{
			"type": "RuntimeError",
			"value": "connection to 127.0.0.1 failed",
			"module": "net",
			"stacktrace": {
				"frames": [
					{"filename": "/Users/jdoe/app/main.go", "function": "main", "module": "main", "lineno": 42, "vars": {"password": "s3cr3t"}}
				]
			}
		}
	]
}`

func TestEvent_DecodeProcessEncode_RedactsAcrossSchema(t *testing.T) {
	annotated, err := FromJSON([]byte(sampleEventJSON))
	require.NoError(t, err)
	require.NotNil(t, annotated.Value)

	processor := newTestProcessor(t)
	annotated.Value.Process(processor)

	out, err := ToJSON(annotated, false)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(out, &tree))

	user := tree["user"].(map[string]any)
	assert.Equal(t, "[ip]", user["ip_address"])
	assert.Contains(t, user["email"], "****")
	extra := user["extra"].(map[string]any)
	assert.Nil(t, extra["password"])
	assert.Equal(t, "pro", extra["plan"])

	request := tree["request"].(map[string]any)
	data := request["data"].(map[string]any)
	assert.Contains(t, data["card"], "****")

	exceptions := tree["exception"].([]any)
	first := exceptions[0].(map[string]any)
	assert.Contains(t, first["value"], "[ip]")
	stacktrace := first["stacktrace"].(map[string]any)
	frames := stacktrace["frames"].([]any)
	frame0 := frames[0].(map[string]any)
	vars := frame0["vars"].(map[string]any)
	assert.Nil(t, vars["password"])

	sidecar, ok := tree[""]
	require.True(t, ok, "expected a non-empty sidecar for a redacted event")
	_ = sidecar
}

func TestEvent_Idempotent(t *testing.T) {
	annotated, err := FromJSON([]byte(sampleEventJSON))
	require.NoError(t, err)

	processor := newTestProcessor(t)
	annotated.Value.Process(processor)
	once, err := ToJSON(annotated, false)
	require.NoError(t, err)

	reloaded, err := FromJSON(once)
	require.NoError(t, err)
	reloaded.Value.Process(processor)
	twice, err := ToJSON(reloaded, false)
	require.NoError(t, err)

	var onceTree, twiceTree map[string]any
	require.NoError(t, json.Unmarshal(once, &onceTree))
	require.NoError(t, json.Unmarshal(twice, &twiceTree))
	assert.Equal(t, onceTree, twiceTree)
}

func TestEvent_MissingOptionalSubObjectsDecodeAsEmpty(t *testing.T) {
	annotated, err := FromJSON([]byte(`{"event_id": "abc123", "message": "hello"}`))
	require.NoError(t, err)
	require.NotNil(t, annotated.Value)
	e := annotated.Value
	assert.Nil(t, e.User.Value)
	assert.Nil(t, e.Request.Value)
	assert.Nil(t, e.Breadcrumbs.Value)
	assert.Nil(t, e.Exception.Value)

	processor := newTestProcessor(t)
	e.Process(processor)

	out, err := ToJSON(annotated, false)
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(out, &tree))
	assert.Equal(t, "abc123", tree["event_id"])
	_, hasUser := tree["user"]
	assert.False(t, hasUser)
}

func TestEvent_WellFormedButNonObjectRootAddsError(t *testing.T) {
	a, err := FromJSON([]byte(`"not an object"`))
	require.NoError(t, err)
	assert.Nil(t, a.Value)
	require.Len(t, a.Meta.Errors, 1)
	assert.Contains(t, a.Meta.Errors[0], "expected object")
}

func TestEvent_DeriveOnDatabagKeepsOnlyDatabagKind(t *testing.T) {
	info := pii.Info(pii.Ptr(pii.PiiEmail), pii.Ptr(pii.CapMessage))
	derived := info.Derive()
	assert.Nil(t, derived.PiiKind)
	assert.Nil(t, derived.Cap)

	databagInfo := pii.Info(pii.Ptr(pii.PiiDatabag), pii.Ptr(pii.CapDatabag))
	derivedDatabag := databagInfo.Derive()
	require.NotNil(t, derivedDatabag.PiiKind)
	assert.Equal(t, pii.PiiDatabag, *derivedDatabag.PiiKind)
}
