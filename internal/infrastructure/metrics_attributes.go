package infrastructure

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

const (
	httpMethodKey     = "http.method"
	httpPathKey       = "http.path"
	httpStatusCodeKey = "http.status_code"
	statusKey         = "status"
	errorTypeKey      = "error.type"
	stageKey          = "job.stage"
	changedKey        = "job.changed"
	useCaseKey        = "use_case"
	messageTypeKey    = "messaging.message.type"
	publishModeKey    = "messaging.operation.mode"
	outcomeKey        = "messaging.outcome"
)

func HTTPMethodAttr(method string) attribute.KeyValue {
	return attribute.String(httpMethodKey, method)
}

func HTTPPathAttr(path string) attribute.KeyValue {
	return attribute.String(httpPathKey, path)
}

func HTTPStatusCodeAttr(code int) attribute.KeyValue {
	return attribute.String(httpStatusCodeKey, fmt.Sprintf("%d", code))
}

func StatusAttr(status string) attribute.KeyValue {
	return attribute.String(statusKey, status)
}

func ErrorTypeAttr(errorType string) attribute.KeyValue {
	return attribute.String(errorTypeKey, errorType)
}

func StageAttr(stage string) attribute.KeyValue {
	return attribute.String(stageKey, stage)
}

func ChangedAttr(changed bool) attribute.KeyValue {
	return attribute.Bool(changedKey, changed)
}

func UseCaseAttr(name string) attribute.KeyValue {
	return attribute.String(useCaseKey, name)
}

func MessageTypeAttr(messageType string) attribute.KeyValue {
	return attribute.String(messageTypeKey, messageType)
}

func PublishModeAttr(mode string) attribute.KeyValue {
	return attribute.String(publishModeKey, mode)
}

func OutcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(outcomeKey, outcome)
}
