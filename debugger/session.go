// Copyright © 2026 The golisp authors

// Package debugger drives an interpreter session one call-form at a
// time, pausing at breakpoints or single steps so an external client —
// ordinarily a Debug Adapter Protocol client, see dap.go — can inspect
// and control it. The session runs the interpreter on its own
// goroutine; every exported method is safe to call from another
// goroutine while it is running.
package debugger

import (
	"sync"

	"github.com/golisp/golisp/interpreter"
	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
	"github.com/golisp/golisp/parser/rdparser"
)

// StopReason names why the session most recently paused.
type StopReason string

const (
	ReasonEntry      StopReason = "entry"
	ReasonBreakpoint StopReason = "breakpoint"
	ReasonStep       StopReason = "step"
	ReasonPause      StopReason = "pause"
)

// Frame is the session's paused position: the call-form line and the
// environment handle active there. The EnvStack's frame chain does not
// carry function names (see lisp/env.go), so a paused session reports
// position by line and environment depth rather than a named call
// stack.
type Frame struct {
	Line int
	SP   int
}

// Session wraps one Interpreter run, stepping it call-form by call-form
// under control of SetBreakpoints/Continue/Next/Pause.
type Session struct {
	in *interpreter.Interpreter

	mu          sync.Mutex
	breakpoints map[int]bool
	stopOnEntry bool
	stepping    bool
	paused      bool
	current     Frame
	entered     bool
	onStop      func(Frame, StopReason)

	pauseReq chan struct{}
	resumeCh chan struct{}
	doneCh   chan struct{}
	runErr   error
}

// New constructs a Session. stopOnEntry, when true, pauses before the
// first call-form is evaluated, giving a client time to set
// breakpoints before anything runs.
func New(stopOnEntry bool, opts ...interpreter.Option) (*Session, error) {
	s := &Session{
		breakpoints: make(map[int]bool),
		stopOnEntry: stopOnEntry,
		pauseReq:    make(chan struct{}, 1),
		resumeCh:    make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	allOpts := append([]interpreter.Option{interpreter.WithTrace(s.onTrace)}, opts...)
	in, err := interpreter.New(allOpts...)
	if err != nil {
		return nil, err
	}
	s.in = in
	return s, nil
}

// Interpreter returns the session's underlying Interpreter, for callers
// that need its Pool/Env directly.
func (s *Session) Interpreter() *interpreter.Interpreter { return s.in }

// SetBreakpoints replaces the full set of active source lines.
func (s *Session) SetBreakpoints(lines []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints = make(map[int]bool, len(lines))
	for _, l := range lines {
		s.breakpoints[l] = true
	}
}

// Start parses src and begins evaluating it on a new goroutine. onStop
// is called on the evaluation goroutine every time the session pauses,
// before that goroutine blocks waiting for Continue or Next; onExit is
// called once, with the run's final error (nil on success), when
// evaluation finishes or fails.
func (s *Session) Start(src string, onStop func(Frame, StopReason), onExit func(error)) error {
	if err := s.in.Parse(lexer.NewStringSource(src)); err != nil {
		return err
	}
	s.mu.Lock()
	s.onStop = onStop
	s.mu.Unlock()
	go func() {
		_, err := s.in.Run()
		s.runErr = err
		close(s.doneCh)
		if onExit != nil {
			onExit(err)
		}
	}()
	return nil
}

// onTrace is installed as the Evaluator's Trace hook. It decides
// whether the current call-form is a stop point and, if so, blocks the
// evaluation goroutine on resumeCh until a Continue/Next call releases
// it.
func (s *Session) onTrace(node *lisp.Node, sp int) error {
	s.mu.Lock()
	reason := StopReason("")
	switch {
	case !s.entered && s.stopOnEntry:
		reason = ReasonEntry
	case s.breakpoints[node.Line]:
		reason = ReasonBreakpoint
	case s.stepping:
		reason = ReasonStep
	default:
		select {
		case <-s.pauseReq:
			reason = ReasonPause
		default:
		}
	}
	s.entered = true
	if reason == "" {
		s.mu.Unlock()
		return nil
	}
	s.stepping = false
	s.current = Frame{Line: node.Line, SP: sp}
	s.paused = true
	cb := s.onStop
	s.mu.Unlock()

	if cb != nil {
		cb(s.current, reason)
	}
	<-s.resumeCh
	return nil
}

// Continue resumes evaluation until the next breakpoint or pause
// request.
func (s *Session) Continue() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.resumeCh <- struct{}{}
}

// Next resumes evaluation but pauses again at the very next call-form.
func (s *Session) Next() {
	s.mu.Lock()
	s.stepping = true
	s.paused = false
	s.mu.Unlock()
	s.resumeCh <- struct{}{}
}

// Pause requests a stop at the next call-form boundary, useful while
// the session is running free between breakpoints.
func (s *Session) Pause() {
	select {
	case s.pauseReq <- struct{}{}:
	default:
	}
}

// CurrentFrame reports the session's paused position. The second
// return is false if the session is not currently paused.
func (s *Session) CurrentFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.paused
}

// Evaluate runs expr against the paused frame's environment and
// returns its rendered value. It is only meaningful while the session
// is paused; the caller is responsible for checking that with
// CurrentFrame.
func (s *Session) Evaluate(expr string) (string, error) {
	frame, _ := s.CurrentFrame()
	toks, err := lexer.New(lexer.NewStringSource(expr)).Tokenize()
	if err != nil {
		return "", err
	}
	node, err := rdparser.New(s.in.Pool, toks).ParseProgram()
	if err != nil {
		return "", err
	}
	var result *lisp.Node
	for form := node; form != nil; form = form.Tail {
		result, err = s.in.Eval.Eval(form.Head, frame.SP)
		if err != nil {
			return "", err
		}
	}
	return lisp.Render(result), nil
}

// Wait blocks until the session's run finishes and returns its final
// error.
func (s *Session) Wait() error {
	<-s.doneCh
	return s.runErr
}
