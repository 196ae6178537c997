package normalize

import (
	"github.com/hayeah/ttbuild/internal/hujsonutil"
	"github.com/tailscale/hujson"
)

// Legacy field names inspected by Postprocess.
const (
	FieldID         = "id"
	FieldPrivileged = "privileged"
	FieldStrictLua  = "strict lua"
	FieldScript     = "script"
	FieldScripts    = "scripts"
	FieldMuteLua    = "mute lua"
)

// UnknownID is reported for objects without an id.
const UnknownID = "unknown id"

// Reporter receives informational events from the pipeline. *slog.Logger
// satisfies it.
type Reporter interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Discard is a Reporter that drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Debug(string, ...any) {}
func (discard) Info(string, ...any)  {}

// PluginID returns the diagnostic identifier of obj.
func PluginID(obj *hujson.Object) string {
	if v := hujsonutil.Lookup(obj, FieldID); v != nil {
		return hujsonutil.Text(v)
	}
	return UnknownID
}

// Postprocess applies the legacy field rules to every object in order:
// "privileged" aborts with a DeprecatedFieldError, "strict lua" is removed,
// and "script"/"scripts" force "mute lua" to true.
func Postprocess(doc *Document, rep Reporter) error {
	for _, obj := range doc.Objects() {
		id := PluginID(obj)
		rep.Debug("analysing plugin", "id", id)

		if hujsonutil.Lookup(obj, FieldPrivileged) != nil {
			return &DeprecatedFieldError{ID: id, Field: FieldPrivileged}
		}

		if hujsonutil.Delete(obj, FieldStrictLua) {
			rep.Info("removed strict lua attribute", "id", id)
		}

		if hujsonutil.Lookup(obj, FieldScript) != nil || hujsonutil.Lookup(obj, FieldScripts) != nil {
			hujsonutil.Set(obj, FieldMuteLua, hujson.Bool(true))
			rep.Info("muted Lua", "id", id)
		}
	}
	return nil
}
