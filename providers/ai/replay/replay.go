// Package replay records adapter exchanges to JSON cassettes and plays them
// back as a standalone adapter. A cassette captured once against a live
// backend turns into a deterministic offline fixture for tests and local
// development.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// Exchange is one recorded adapter interaction. For synchronous calls the
// response is stored whole; for streaming calls the full event sequence is
// kept so playback preserves delta boundaries. Failures record the error kind
// and detail instead.
type Exchange struct {
	Request   ai.ChatRequest   `json:"request"`
	Response  *ai.ChatResponse `json:"response,omitempty"`
	Events    []ai.StreamEvent `json:"events,omitempty"`
	ErrKind   ai.ErrorKind     `json:"error_kind,omitempty"`
	ErrDetail string           `json:"error_detail,omitempty"`
}

func (e Exchange) err() error {
	if e.ErrKind == "" {
		return nil
	}
	return &ai.Error{Kind: e.ErrKind, Detail: e.ErrDetail}
}

// Cassette is an ordered list of exchanges with JSON persistence.
type Cassette struct {
	Exchanges []Exchange `json:"exchanges"`
}

// Save writes the cassette as indented JSON.
func (c *Cassette) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cassette: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cassette: %w", err)
	}
	return nil
}

// Load reads a cassette previously written by Save.
func Load(path string) (*Cassette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cassette: %w", err)
	}
	var cassette Cassette
	if err := json.Unmarshal(data, &cassette); err != nil {
		return nil, fmt.Errorf("decoding cassette %s: %w", path, err)
	}
	return &cassette, nil
}

// Recorder wraps a live adapter and appends every exchange to its cassette.
// Safe for concurrent use; concurrent exchanges append in completion order.
type Recorder struct {
	adapter ai.ChatAdapter

	mu       sync.Mutex
	cassette Cassette
}

// NewRecorder wraps adapter. Retrieve the captured exchanges with
// [Recorder.Cassette] once the session is over.
func NewRecorder(adapter ai.ChatAdapter) *Recorder {
	return &Recorder{adapter: adapter}
}

// Cassette returns a copy of everything recorded so far.
func (r *Recorder) Cassette() *Cassette {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Cassette{Exchanges: append([]Exchange(nil), r.cassette.Exchanges...)}
}

func (r *Recorder) record(exchange Exchange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cassette.Exchanges = append(r.cassette.Exchanges, exchange)
}

// Info implements [ai.ChatAdapter], delegating to the wrapped adapter.
func (r *Recorder) Info() ai.AdapterInfo {
	return r.adapter.Info()
}

// Chat implements [ai.ChatAdapter]: the call passes through and the exchange
// is recorded, including failures.
func (r *Recorder) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	response, err := r.adapter.Chat(ctx, request)

	exchange := Exchange{Request: request, Response: response}
	if err != nil {
		exchange.ErrKind = ai.KindOf(err)
		exchange.ErrDetail = err.Error()
	}
	r.record(exchange)

	return response, err
}

// ChatStream implements [ai.ChatAdapter]. Events are captured as they flow to
// the caller; the exchange is recorded when the stream ends, fails, or is
// abandoned, so partial streams still land on the cassette.
func (r *Recorder) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	stream, err := r.adapter.ChatStream(ctx, request)
	if err != nil {
		r.record(Exchange{Request: request, ErrKind: ai.KindOf(err), ErrDetail: err.Error()})
		return nil, err
	}

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		exchange := Exchange{Request: request}
		defer func() { r.record(exchange) }()

		for event, streamErr := range stream.Iter() {
			if streamErr != nil {
				exchange.ErrKind = ai.KindOf(streamErr)
				exchange.ErrDetail = streamErr.Error()
				yield(event, streamErr)
				return
			}

			exchange.Events = append(exchange.Events, event)
			if !yield(event, nil) {
				return
			}
			if event.Type == ai.StreamEventDone {
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// Player replays a cassette's exchanges in recorded order without touching
// the network. It implements [ai.ChatAdapter]; Chat and ChatStream both
// consume the next exchange, mirroring the interleaving of the recording
// session. An exhausted cassette fails with an invalid-request error.
type Player struct {
	info ai.AdapterInfo

	mu       sync.Mutex
	cassette *Cassette
	position int
}

// NewPlayer builds a playback adapter over cassette. The advertised
// capability matrix allows everything; the cassette's contents decide what
// playback can actually answer.
func NewPlayer(cassette *Cassette) *Player {
	return &Player{
		info: ai.AdapterInfo{
			Name: "replay",
			Capabilities: ai.CapabilityMatrix{
				Streaming:        true,
				Tools:            true,
				StructuredOutput: true,
				MultimodalInput:  true,
				Citations:        true,
			},
		},
		cassette: cassette,
	}
}

// Info implements [ai.ChatAdapter].
func (p *Player) Info() ai.AdapterInfo {
	return p.info
}

func (p *Player) next() (Exchange, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.position >= len(p.cassette.Exchanges) {
		return Exchange{}, ai.Errorf(ai.ErrInvalidRequest, "cassette exhausted after %d exchanges", p.position)
	}
	exchange := p.cassette.Exchanges[p.position]
	p.position++
	return exchange, nil
}

// Chat implements [ai.ChatAdapter] by returning the next recorded response.
// An exchange recorded from a stream is flattened into a single response.
func (p *Player) Chat(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	exchange, err := p.next()
	if err != nil {
		return nil, err
	}
	if err := exchange.err(); err != nil {
		return nil, err
	}

	if exchange.Response != nil {
		return exchange.Response, nil
	}
	return ai.NewChatStream(replayIterator(exchange.Events)).Collect()
}

// ChatStream implements [ai.ChatAdapter] by replaying the next recorded event
// sequence. An exchange recorded synchronously plays back as a single-burst
// stream.
func (p *Player) ChatStream(_ context.Context, _ ai.ChatRequest) (*ai.ChatStream, error) {
	exchange, err := p.next()
	if err != nil {
		return nil, err
	}
	if err := exchange.err(); err != nil {
		return nil, err
	}

	if len(exchange.Events) == 0 && exchange.Response != nil {
		return ai.NewSingleEventStream(exchange.Response), nil
	}
	return ai.NewChatStream(replayIterator(exchange.Events)), nil
}

func replayIterator(events []ai.StreamEvent) func(yield func(ai.StreamEvent, error) bool) {
	return func(yield func(ai.StreamEvent, error) bool) {
		for _, event := range events {
			if !yield(event, nil) {
				return
			}
		}
	}
}
