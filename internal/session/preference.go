package session

import (
	"fmt"

	"github.com/lambda-feedback/warden/util"
)

// KeyAutostart is the session key of the gateway autostart preference.
const KeyAutostart = "autostart_gateway"

// Preference is a tri-state user choice.
type Preference int

const (
	PreferenceAbsent Preference = iota
	PreferenceTrue
	PreferenceFalse
)

func (p Preference) String() string {
	switch p {
	case PreferenceTrue:
		return "true"
	case PreferenceFalse:
		return "false"
	default:
		return "absent"
	}
}

// Or resolves the preference, returning def if it is absent.
func (p Preference) Or(def bool) bool {
	switch p {
	case PreferenceTrue:
		return true
	case PreferenceFalse:
		return false
	default:
		return def
	}
}

// Autostart reads the autostart preference of a session.
func Autostart(store Store, sessionID string) (Preference, error) {
	value, ok, err := store.Get(sessionID, KeyAutostart)
	if err != nil {
		return PreferenceAbsent, err
	}

	if !ok || value == nil {
		return PreferenceAbsent, nil
	}

	switch v := value.(type) {
	case bool:
		if v {
			return PreferenceTrue, nil
		}
		return PreferenceFalse, nil
	case string:
		if util.Truthy(v) {
			return PreferenceTrue, nil
		}
		return PreferenceFalse, nil
	default:
		return PreferenceAbsent, fmt.Errorf("unexpected autostart preference type %T", value)
	}
}

// SetAutostart stores the autostart preference of a session.
func SetAutostart(store Store, sessionID string, enabled bool) error {
	return store.Set(sessionID, KeyAutostart, enabled)
}
