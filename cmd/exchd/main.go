// Command exchd drives one matching engine per symbol from a batch of
// FIX order messages. It reads NEW_ORDER(D) and CANCEL_ORDER(F) messages
// framed back-to-back from an input stream and writes an
// EXECUTION_REPORT(8) for each order in every fill to an output stream;
// cancels and revises are logged only. There is
// no network transport and no FIX session-level state machine: input and
// output are plain byte streams, by default stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir-exch/internal/common"
	"fenrir-exch/internal/engine"
	"fenrir-exch/internal/fix"
	"fenrir-exch/internal/platform"
)

func main() {
	inPath := flag.String("in", "-", "input file of framed FIX messages, - for stdin")
	outPath := flag.String("out", "-", "output file for execution reports, - for stdout")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	in, err := openInput(*inPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	defer in.Close()

	out, err := openOutput(*outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open output")
	}
	defer out.Close()

	if err := run(in, out); err != nil {
		log.Fatal().Err(err).Msg("exchd")
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// book is one symbol's matching engine, confined to a single-worker pool
// so it is never touched by more than one goroutine at a time.
type book struct {
	engine *engine.Engine[float64]
	pool   platform.WorkerPool
}

// server fans incoming orders out across per-symbol books and serializes
// report writes behind a mutex.
type server struct {
	mu       sync.Mutex
	books    map[string]*book
	out      io.Writer
	seq      uint32
	lastSeen uint32
}

func newServer(out io.Writer) *server {
	return &server{books: make(map[string]*book), out: out}
}

func (s *server) bookFor(t *tomb.Tomb, symbol string) *book {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.books[symbol]; ok {
		return b
	}

	b := &book{pool: platform.NewWorkerPool(1)}
	b.engine = engine.New[float64](s.callbackFor(symbol))
	b.engine.Logger = log.Logger
	b.pool.Run(t, func(_ *tomb.Tomb, task any) error {
		task.(func())()
		return nil
	})
	s.books[symbol] = b
	return b
}

func (s *server) callbackFor(symbol string) common.Callback[float64] {
	return func(event common.Event[float64]) {
		switch ev := event.(type) {
		case common.TradeEvent[float64]:
			s.report(symbol, ev.New, ev.Quantity)
			s.report(symbol, ev.Existing, ev.Quantity)
		case common.CancelEvent[float64]:
			log.Info().Str("symbol", symbol).Str("id", ev.Order.ID).Msg("cancelled")
		case common.ReviseEvent[float64]:
			log.Info().Str("symbol", symbol).Str("id", ev.Order.ID).Msg("revised")
		}
	}
}

func (s *server) report(symbol string, order *common.Order[float64], qty uint64) {
	buf := make([]byte, 512)
	enc := fix.NewEncoder(fix.ExecutionReport, fix.Version44, buf)
	enc.AppendString(fix.ClOrdID, order.ID)
	enc.AppendString(fix.Symbol, symbol)
	enc.AppendInt(fix.Side, int64(sideCode(order.Side)))
	enc.AppendUint(fix.LastShares, qty)
	enc.AppendUint(fix.CumQty, order.TotalQuantity-order.Quantity)
	enc.AppendUint(fix.LeavesQty, order.Quantity)
	enc.AppendFloat(fix.LastPx, float64(order.Price))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	enc.Finalize(s.seq, s.lastSeen)
	if _, err := s.out.Write(buf[:enc.Size()]); err != nil {
		log.Error().Err(err).Msg("write execution report")
	}
}

func sideCode(side common.Side) int {
	if side == common.Sell {
		return 2
	}
	return 1
}

func run(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	t, _ := tomb.WithContext(context.Background())
	srv := newServer(out)

	for len(data) > 0 {
		msg, rest, err := nextMessage(data)
		if err != nil {
			log.Error().Err(err).Msg("framing error, dropping remainder")
			break
		}
		data = rest

		if err := dispatch(t, srv, msg); err != nil {
			log.Error().Err(err).Msg("dispatch")
		}
	}

	// Close every book's pool so its worker drains any buffered tasks and
	// exits via the closed-channel path, not a race against t.Dying().
	srv.mu.Lock()
	for _, b := range srv.books {
		b.pool.Close()
	}
	srv.mu.Unlock()

	return t.Wait()
}

// nextMessage scans the minimal prefix needed to learn BodyLength, then
// slices out exactly one FIX message, leaving the remainder for the next
// call. It duplicates just enough of the tag=value grammar to find a
// boundary; full validation still happens in fix.NewParser.
func nextMessage(data []byte) (msg []byte, rest []byte, err error) {
	next := 0
	next, err = skipField(data, next) // BeginString
	if err != nil {
		return nil, nil, err
	}
	bodyLengthStart := next
	next, err = skipField(data, next) // BodyLength
	if err != nil {
		return nil, nil, err
	}
	bodyLength, perr := bodyLengthValue(data[bodyLengthStart:next])
	if perr != nil {
		return nil, nil, perr
	}

	end := next + bodyLength + 4 + 3 // "10=" + 3 digits + SOH
	if end > len(data) {
		return nil, nil, fmt.Errorf("exchd: truncated message")
	}

	full := data[:end]
	if _, verr := fix.NewParser(full); verr != nil {
		return nil, nil, verr
	}
	return full, data[end:], nil
}

func skipField(data []byte, start int) (int, error) {
	i := start
	for i < len(data) && data[i] != '=' {
		i++
	}
	if i == len(data) {
		return 0, fmt.Errorf("exchd: missing '='")
	}
	i++
	for i < len(data) && data[i] != fix.SOH {
		i++
	}
	if i == len(data) {
		return 0, fmt.Errorf("exchd: missing SOH")
	}
	return i + 1, nil
}

func bodyLengthValue(field []byte) (int, error) {
	eq := -1
	for i, b := range field {
		if b == '=' {
			eq = i
			break
		}
	}
	if eq < 0 {
		return 0, fmt.Errorf("exchd: malformed BodyLength field")
	}
	digits := field[eq+1 : len(field)-1]
	return strconv.Atoi(string(digits))
}

func dispatch(t *tomb.Tomb, srv *server, msg []byte) error {
	p, err := fix.NewParser(msg)
	if err != nil {
		return err
	}

	fields := map[fix.Tag][]byte{}
	for {
		tag, value, ok, err := p.NextTag()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fields[tag] = value
	}

	msgType := fields[fix.MsgType]
	if len(msgType) != 1 {
		return fmt.Errorf("exchd: missing MsgType")
	}

	switch fix.MsgType(msgType[0]) {
	case fix.NewOrder:
		return dispatchNewOrder(t, srv, fields)
	case fix.CancelOrder:
		return dispatchCancelOrder(srv, fields)
	default:
		return fmt.Errorf("exchd: unsupported MsgType %q", msgType)
	}
}

func dispatchNewOrder(t *tomb.Tomb, srv *server, fields map[fix.Tag][]byte) error {
	symbol := fix.ParseString(fields[fix.Symbol])
	if symbol == "" {
		return fmt.Errorf("exchd: missing Symbol")
	}

	id := fix.ParseString(fields[fix.ClOrdID])
	if id == "" {
		id = uuid.NewString()
	}

	order := &common.Order[float64]{
		ID:   id,
		Type: orderType(fields[fix.OrdType]),
		TIF:  timeInForce(fields[fix.TimeInForce]),
	}
	if v, ok := fields[fix.Price]; ok {
		order.Price = fix.ParseReal[float64](v)
	}
	if v, ok := fields[fix.OrderQty]; ok {
		qty := fix.ParseUnsigned[uint64](v)
		order.Quantity = qty
		order.TotalQuantity = qty
	}

	b := srv.bookFor(t, symbol)
	side := fields[fix.Side]
	b.pool.Submit(func() {
		if len(side) == 1 && side[0] == '2' {
			b.engine.Sell(order)
		} else {
			b.engine.Buy(order)
		}
	})
	return nil
}

func dispatchCancelOrder(srv *server, fields map[fix.Tag][]byte) error {
	symbol := fix.ParseString(fields[fix.Symbol])
	id := fix.ParseString(fields[fix.OrigClOrdID])
	if id == "" {
		id = fix.ParseString(fields[fix.ClOrdID])
	}
	if symbol == "" || id == "" {
		return fmt.Errorf("exchd: cancel requires Symbol and OrigClOrdID")
	}

	srv.mu.Lock()
	b, ok := srv.books[symbol]
	srv.mu.Unlock()
	if !ok {
		return nil
	}
	b.pool.Submit(func() { b.engine.Cancel(id) })
	return nil
}

func orderType(b []byte) common.OrderType {
	if len(b) == 1 && b[0] == '1' {
		return common.Market
	}
	return common.Limit
}

func timeInForce(b []byte) common.TimeInForce {
	if len(b) != 1 {
		return common.Day
	}
	switch b[0] {
	case '1':
		return common.GTC
	case '3':
		return common.IOC
	default:
		return common.Day
	}
}
