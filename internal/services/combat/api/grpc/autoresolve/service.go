// Package autoresolve exposes battle resolution over gRPC.
//
// Messages are google.protobuf.Struct values so the service needs no
// generated code. Resolve takes:
//
//	{"scenario": "<lua source>", "name": "...", "seed": 42, "max_rounds": 20,
//	 "locale": "pt-BR", "private": false, "persist": true}
//
// and GetBattle takes {"battle_id": "...", "locale": "...", "private": false}.
// Both return the battle summary with its rendered log lines.
package autoresolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/megamek/acar/internal/platform/errors"
	"github.com/megamek/acar/internal/services/combat/domain/report"
	"github.com/megamek/acar/internal/services/combat/render"
	"github.com/megamek/acar/internal/services/combat/resolve"
	"github.com/megamek/acar/internal/services/combat/scenario"
	"github.com/megamek/acar/internal/services/combat/storage"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names.
const (
	ServiceName     = "combat.v1.AutoResolveService"
	ResolveMethod   = "/" + ServiceName + "/Resolve"
	GetBattleMethod = "/" + ServiceName + "/GetBattle"
)

// Resolver resolves parsed scenarios.
type Resolver interface {
	Resolve(ctx context.Context, sc *scenario.Scenario, opts resolve.Options) (resolve.Outcome, error)
}

// Server is the service implementation contract.
type Server interface {
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// Service implements Server.
type Service struct {
	resolver Resolver
	store    storage.BattleStore
}

// NewService returns a service. store may be nil, in which case battles are
// never persisted and GetBattle reports not found.
func NewService(resolver Resolver, store storage.BattleStore) *Service {
	return &Service{resolver: resolver, store: store}
}

// Resolve parses the scenario in the request and resolves it.
func (s *Service) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in.GetFields()}
	locale := req.str("locale")
	resp, err := s.resolve(ctx, req, locale)
	if err != nil {
		return nil, apperrors.ToStatus(err, locale)
	}
	return resp, nil
}

func (s *Service) resolve(ctx context.Context, req request, locale string) (*structpb.Struct, error) {
	source := req.str("scenario")
	if strings.TrimSpace(source) == "" {
		return nil, apperrors.New(apperrors.CodeScenarioMissing, "scenario source is required")
	}
	name := req.str("name")
	if name == "" {
		name = "request"
	}
	sc, err := scenario.LoadString(name, source)
	if err != nil {
		return nil, err
	}
	opts := resolve.Options{Persist: req.boolean("persist") && s.store != nil}
	if seed, ok, err := req.integer("seed"); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSeedOutOfRange, "seed", err)
	} else if ok {
		opts.Seed, opts.HasSeed = seed, true
	}
	if rounds, ok, err := req.integer("max_rounds"); err != nil || (ok && (rounds <= 0 || rounds > math.MaxInt32)) {
		return nil, apperrors.New(apperrors.CodeScenarioInvalid, "max_rounds must be a positive integer")
	} else if ok {
		opts.MaxRounds = int(rounds)
	}

	outcome, err := s.resolver.Resolve(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	lines, err := renderLines(locale, req.boolean("private"), outcome.Reports)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{
		"battle_id":    outcome.BattleID,
		"scenario":     outcome.Scenario,
		"seed":         float64(outcome.Seed),
		"rounds":       outcome.Rounds,
		"draw":         outcome.Result.Draw,
		"winning_team": outcome.Result.WinningTeam,
		"log":          lines,
	})
}

// GetBattle returns a stored battle with its rendered log.
func (s *Service) GetBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in.GetFields()}
	locale := req.str("locale")
	resp, err := s.getBattle(ctx, req, locale)
	if err != nil {
		return nil, apperrors.ToStatus(err, locale)
	}
	return resp, nil
}

func (s *Service) getBattle(ctx context.Context, req request, locale string) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.str("battle_id"))
	if id == "" {
		return nil, apperrors.New(apperrors.CodeNotFound, "battle_id is required")
	}
	if s.store == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "battle storage is not configured")
	}
	record, err := s.store.GetBattle(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("battle %s", id), err)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageUnavailable, "get battle", err)
	}
	lines, err := renderLines(locale, req.boolean("private"), resolve.Entries(record.Reports))
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{
		"battle_id":    record.ID,
		"scenario":     record.Scenario,
		"seed":         float64(record.Seed),
		"rounds":       record.Rounds,
		"draw":         record.Draw,
		"winning_team": record.WinningTeam,
		"log":          lines,
	})
}

func renderLines(locale string, private bool, entries []report.Entry) ([]any, error) {
	var opts []render.Option
	if private {
		opts = append(opts, render.WithPrivate())
	}
	r, err := render.New(locale, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "create renderer", err)
	}
	rendered := r.Lines(entries)
	lines := make([]any, len(rendered))
	for i, line := range rendered {
		lines[i] = line
	}
	return lines, nil
}

type request struct {
	fields map[string]*structpb.Value
}

func (r request) str(key string) string {
	return r.fields[key].GetStringValue()
}

func (r request) boolean(key string) bool {
	return r.fields[key].GetBoolValue()
}

// integer reads a whole number. Struct numbers are doubles, so values past
// 2^53 lose precision and are rejected.
func (r request) integer(key string) (int64, bool, error) {
	v, ok := r.fields[key]
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false, fmt.Errorf("%s must be an integer within ±2^53", key)
	}
	return int64(f), true, nil
}

// ServiceDesc is the grpc.ServiceDesc for the auto-resolve service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "GetBattle", Handler: getBattleHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "combat/v1/autoresolve.proto",
}

// Register registers srv on registrar.
func Register(registrar grpc.ServiceRegistrar, srv Server) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Resolve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getBattleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).GetBattle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetBattleMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).GetBattle(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the auto-resolve service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Resolve calls Resolve.
func (c *Client) Resolve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResolveMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBattle calls GetBattle.
func (c *Client) GetBattle(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetBattleMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Server = (*Service)(nil)
