// Package enginerr defines the engine's error taxonomy and maps raw OS
// result codes to it. Every package that calls into ccdapi or the
// legacy change-settings surface funnels its failures through Translate
// so callers see one consistent set of error kinds regardless of which
// strategy or applier produced them.
package enginerr

import "fmt"

// Kind tags which taxonomy bucket an error belongs to.
type Kind int

const (
	KindInvalidPath Kind = iota
	KindHardwareNotResponding
	KindDriverError
	KindValidationTimeout
	KindPermissionDenied
	KindConfigurationFailed
	KindDeviceBusy
	KindUnknownError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "InvalidPath"
	case KindHardwareNotResponding:
		return "HardwareNotResponding"
	case KindDriverError:
		return "DriverError"
	case KindValidationTimeout:
		return "ValidationTimeout"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindConfigurationFailed:
		return "ConfigurationFailed"
	case KindDeviceBusy:
		return "DeviceBusy"
	default:
		return "UnknownError"
	}
}

// EngineError is the concrete error type returned across the engine's
// public operations.
type EngineError struct {
	Kind    Kind
	Code    int32  // raw OS result code, when applicable
	Setting string // for ConfigurationFailed
	Value   string // for ConfigurationFailed
	Source  string // for UnknownError
	Message string
}

func (e *EngineError) Error() string {
	switch e.Kind {
	case KindDriverError:
		return fmt.Sprintf("%s(%d): %s", e.Kind, e.Code, e.Message)
	case KindConfigurationFailed:
		return fmt.Sprintf("%s(%s=%s): %s", e.Kind, e.Setting, e.Value, e.Message)
	case KindUnknownError:
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Source, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// driverCodeMessages maps the well-known Win32 error codes this engine
// encounters to short, actionable phrasings. DISP_CHANGE_* results are
// not listed and get the generic unrecognized-error message.
var driverCodeMessages = map[int32]string{
	5:    "Access denied. Run as administrator.",
	87:   "Bad parameter.",
	170:  "Device busy.",
	1004: "Bad flags.",
	1169: "Device not found.",
	1219: "Multiple connections to the device are not allowed.",
	1359: "Internal error.",
	1450: "Insufficient system resources.",
}

// Translate maps a raw OS result code into a taxonomy-tagged
// EngineError, picking PermissionDenied/DeviceBusy out as distinct
// kinds from the generic DriverError bucket.
func Translate(code int32, context string) *EngineError {
	msg, known := driverCodeMessages[code]
	if !known {
		msg = "Unrecognized driver error."
	}

	switch code {
	case 5:
		return &EngineError{Kind: KindPermissionDenied, Code: code, Message: msg}
	case 170:
		return &EngineError{Kind: KindDeviceBusy, Code: code, Message: msg}
	default:
		return &EngineError{Kind: KindDriverError, Code: code, Message: fmt.Sprintf("%s: %s", context, msg)}
	}
}

// NewConfigurationFailed builds a pre-flight ConfigurationFailed error.
func NewConfigurationFailed(setting, value, reason string) *EngineError {
	return &EngineError{Kind: KindConfigurationFailed, Setting: setting, Value: value, Message: reason}
}

// NewInvalidPath builds an InvalidPath error.
func NewInvalidPath(message string) *EngineError {
	return &EngineError{Kind: KindInvalidPath, Message: message}
}

// NewHardwareNotResponding builds a HardwareNotResponding error.
func NewHardwareNotResponding(message string) *EngineError {
	return &EngineError{Kind: KindHardwareNotResponding, Message: message}
}

// NewValidationTimeout builds a ValidationTimeout error.
func NewValidationTimeout(message string) *EngineError {
	return &EngineError{Kind: KindValidationTimeout, Message: message}
}

// NewUnknown builds an UnknownError tagged with its originating source.
func NewUnknown(source string, err error) *EngineError {
	return &EngineError{Kind: KindUnknownError, Source: source, Message: err.Error()}
}
