package handler

import "go.hackfix.me/brute/web/server/types"

// Pipeline defines the processing stages for HTTP requests and responses.
// It provides a fluent interface for configuring serialization and processors.
type Pipeline struct {
	serializer         Serializer
	errorLevel         types.ErrorLevel
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
}

// NewPipeline creates a new empty pipeline for configuring request/response
// processing. Error messages are returned intact unless ErrorLevel is set.
func NewPipeline() *Pipeline {
	return &Pipeline{errorLevel: types.ErrorLevelFull}
}

// Serialize sets the serializer for request and response bodies.
func (p *Pipeline) Serialize(s Serializer) *Pipeline {
	p.serializer = s
	return p
}

// ErrorLevel sets the detail level of error messages returned to clients.
func (p *Pipeline) ErrorLevel(lvl types.ErrorLevel) *Pipeline {
	p.errorLevel = lvl
	return p
}

// ProcessRequest adds one or more request processors to the pipeline.
func (p *Pipeline) ProcessRequest(processor ...RequestProcessor) *Pipeline {
	p.requestProcessors = append(p.requestProcessors, processor...)
	return p
}

// ProcessResponse adds one or more response processors to the pipeline.
func (p *Pipeline) ProcessResponse(processor ...ResponseProcessor) *Pipeline {
	p.responseProcessors = append(p.responseProcessors, processor...)
	return p
}
