// Copyright © 2026 The golisp authors

package debugger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/go-dap"

	"github.com/golisp/golisp/interpreter"
)

// Server speaks the Debug Adapter Protocol over an io.Reader/io.Writer
// pair (stdin/stdout or a TCP connection), driving a single Session per source
// file. One Server serves exactly one debug session: DAP clients that
// want to debug another file start another golisp debug process.
type Server struct {
	r *bufio.Reader
	w io.Writer

	mu      sync.Mutex // guards writes to w
	sess    *Session
	seq     atomic.Int64
	threads []dap.Thread
}

// NewServer constructs a Server reading requests from r and writing
// responses/events to w.
func NewServer(r io.Reader, w io.Writer) *Server {
	return &Server{r: bufio.NewReader(r), w: w, threads: []dap.Thread{{Id: 1, Name: "main"}}}
}

// Serve runs until the client sends a disconnect request or closes the
// stream.
func (srv *Server) Serve() error {
	for {
		msg, err := dap.ReadProtocolMessage(srv.r)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := srv.handle(msg); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Printf("debugger: handling %T: %v", msg, err)
		}
	}
}

func (srv *Server) send(msg dap.Message) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if err := dap.WriteProtocolMessage(srv.w, msg); err != nil {
		log.Printf("debugger: write failed: %v", err)
	}
}

func (srv *Server) nextSeq() int {
	return int(srv.seq.Add(1))
}

func (srv *Server) handle(msg dap.Message) error {
	switch req := msg.(type) {
	case *dap.InitializeRequest:
		return srv.onInitialize(req)
	case *dap.LaunchRequest:
		return srv.onLaunch(req)
	case *dap.SetBreakpointsRequest:
		return srv.onSetBreakpoints(req)
	case *dap.ConfigurationDoneRequest:
		return srv.onConfigurationDone(req)
	case *dap.ThreadsRequest:
		return srv.onThreads(req)
	case *dap.StackTraceRequest:
		return srv.onStackTrace(req)
	case *dap.ScopesRequest:
		return srv.onScopes(req)
	case *dap.VariablesRequest:
		return srv.onVariables(req)
	case *dap.ContinueRequest:
		return srv.onContinue(req)
	case *dap.NextRequest:
		return srv.onNext(req)
	case *dap.PauseRequest:
		return srv.onPause(req)
	case *dap.EvaluateRequest:
		return srv.onEvaluate(req)
	case *dap.DisconnectRequest:
		return srv.onDisconnect(req)
	default:
		return fmt.Errorf("unsupported request type %T", msg)
	}
}

func (srv *Server) onInitialize(req *dap.InitializeRequest) error {
	resp := &dap.InitializeResponse{}
	resp.Response = srv.newResponse(req.Seq, req.Command)
	resp.Body.SupportsConfigurationDoneRequest = true
	srv.send(resp)
	srv.send(&dap.InitializedEvent{Event: srv.newEvent("initialized")})
	return nil
}

// launchArgs is the subset of LaunchRequest.Arguments golisp debug
// understands: the program's source as raw text, or failing that a
// program path that onLaunch reads itself, and whether to stop before
// the first call-form.
type launchArgs struct {
	Program     string `json:"program"`
	Source      string `json:"source"`
	StopOnEntry bool   `json:"stopOnEntry"`
}

func (srv *Server) onLaunch(req *dap.LaunchRequest) error {
	var args launchArgs
	if err := unmarshalArguments(req.Arguments, &args); err != nil {
		return err
	}
	source := args.Source
	if source == "" && args.Program != "" {
		data, err := os.ReadFile(args.Program) //nolint:gosec // debug target is a client-supplied path
		if err != nil {
			return err
		}
		source = string(data)
	}
	sess, err := New(args.StopOnEntry, interpreter.WithNodeBudget(0))
	if err != nil {
		return err
	}
	srv.sess = sess

	resp := &dap.LaunchResponse{Response: srv.newResponse(req.Seq, req.Command)}
	srv.send(resp)

	err = sess.Start(source,
		func(_ Frame, reason StopReason) {
			ev := &dap.StoppedEvent{Event: srv.newEvent("stopped")}
			ev.Body.Reason = string(reason)
			ev.Body.ThreadId = 1
			ev.Body.AllThreadsStopped = true
			srv.send(ev)
		},
		func(runErr error) {
			exitCode := 0
			if runErr != nil {
				exitCode = 1
			}
			srv.send(&dap.ExitedEvent{Event: srv.newEvent("exited"), Body: dap.ExitedEventBody{ExitCode: exitCode}})
			srv.send(&dap.TerminatedEvent{Event: srv.newEvent("terminated")})
		},
	)
	return err
}

func (srv *Server) onSetBreakpoints(req *dap.SetBreakpointsRequest) error {
	resp := &dap.SetBreakpointsResponse{Response: srv.newResponse(req.Seq, req.Command)}
	lines := make([]int, 0, len(req.Arguments.Breakpoints))
	resp.Body.Breakpoints = make([]dap.Breakpoint, 0, len(req.Arguments.Breakpoints))
	for _, bp := range req.Arguments.Breakpoints {
		lines = append(lines, bp.Line)
		resp.Body.Breakpoints = append(resp.Body.Breakpoints, dap.Breakpoint{Verified: true, Line: bp.Line})
	}
	if srv.sess != nil {
		srv.sess.SetBreakpoints(lines)
	}
	srv.send(resp)
	return nil
}

func (srv *Server) onConfigurationDone(req *dap.ConfigurationDoneRequest) error {
	srv.send(&dap.ConfigurationDoneResponse{Response: srv.newResponse(req.Seq, req.Command)})
	return nil
}

func (srv *Server) onThreads(req *dap.ThreadsRequest) error {
	resp := &dap.ThreadsResponse{Response: srv.newResponse(req.Seq, req.Command)}
	resp.Body.Threads = srv.threads
	srv.send(resp)
	return nil
}

func (srv *Server) onStackTrace(req *dap.StackTraceRequest) error {
	resp := &dap.StackTraceResponse{Response: srv.newResponse(req.Seq, req.Command)}
	if srv.sess != nil {
		if frame, ok := srv.sess.CurrentFrame(); ok {
			resp.Body.StackFrames = []dap.StackFrame{{
				Id:   frame.SP,
				Name: fmt.Sprintf("env#%d", frame.SP),
				Line: frame.Line,
			}}
			resp.Body.TotalFrames = 1
		}
	}
	srv.send(resp)
	return nil
}

func (srv *Server) onScopes(req *dap.ScopesRequest) error {
	resp := &dap.ScopesResponse{Response: srv.newResponse(req.Seq, req.Command)}
	resp.Body.Scopes = []dap.Scope{{Name: "environment", VariablesReference: 1, Expensive: false}}
	srv.send(resp)
	return nil
}

func (srv *Server) onVariables(req *dap.VariablesRequest) error {
	resp := &dap.VariablesResponse{Response: srv.newResponse(req.Seq, req.Command)}
	// The EnvStack's frame chain is addressed by symbol name, not by
	// enumerable slot; without a name to look up there is nothing to
	// list here. A client drives variable inspection through Evaluate
	// instead (onEvaluate below).
	srv.send(resp)
	return nil
}

func (srv *Server) onContinue(req *dap.ContinueRequest) error {
	resp := &dap.ContinueResponse{Response: srv.newResponse(req.Seq, req.Command)}
	srv.send(resp)
	if srv.sess != nil {
		srv.sess.Continue()
	}
	return nil
}

func (srv *Server) onNext(req *dap.NextRequest) error {
	resp := &dap.NextResponse{Response: srv.newResponse(req.Seq, req.Command)}
	srv.send(resp)
	if srv.sess != nil {
		srv.sess.Next()
	}
	return nil
}

func (srv *Server) onPause(req *dap.PauseRequest) error {
	resp := &dap.PauseResponse{Response: srv.newResponse(req.Seq, req.Command)}
	srv.send(resp)
	if srv.sess != nil {
		srv.sess.Pause()
	}
	return nil
}

func (srv *Server) onEvaluate(req *dap.EvaluateRequest) error {
	resp := &dap.EvaluateResponse{Response: srv.newResponse(req.Seq, req.Command)}
	if srv.sess != nil {
		result, err := srv.sess.Evaluate(req.Arguments.Expression)
		if err != nil {
			resp.Success = false
			resp.Message = err.Error()
		} else {
			resp.Body.Result = result
		}
	}
	srv.send(resp)
	return nil
}

func (srv *Server) onDisconnect(req *dap.DisconnectRequest) error {
	srv.send(&dap.DisconnectResponse{Response: srv.newResponse(req.Seq, req.Command)})
	return io.EOF
}

func (srv *Server) newResponse(requestSeq int, command string) dap.Response {
	return dap.Response{
		ProtocolMessage: dap.ProtocolMessage{Seq: srv.nextSeq(), Type: "response"},
		RequestSeq:      requestSeq,
		Success:         true,
		Command:         command,
	}
}

func (srv *Server) newEvent(event string) dap.Event {
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: srv.nextSeq(), Type: "event"},
		Event:           event,
	}
}

func unmarshalArguments(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
