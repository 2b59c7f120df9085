// Command divergd watches a stream of "name price" ticks on stdin and logs
// whenever a registered stock pair's prices drift beyond a threshold.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fenrir-exch/internal/monitor"
)

func main() {
	threshold := flag.Int("threshold", 1, "divergence threshold")
	pairs := flag.String("pairs", "", "comma-separated A:B stock pairs to watch")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	m, err := monitor.New(*threshold, func(changed, other monitor.Stock) {
		log.Info().
			Str("changed", changed.Name).Int("changed_price", changed.Price).
			Str("other", other.Name).Int("other_price", other.Price).
			Msg("divergence")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("divergd")
	}

	for _, spec := range strings.Split(*pairs, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		names := strings.SplitN(spec, ":", 2)
		if len(names) != 2 {
			log.Fatal().Str("pair", spec).Msg("malformed -pairs entry, want A:B")
		}
		m.Monitor(names[0], names[1])
	}

	if err := run(os.Stdin, m); err != nil {
		log.Fatal().Err(err).Msg("divergd")
	}
}

func run(in *os.File, m *monitor.Monitor) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, price, err := parseTick(line)
		if err != nil {
			log.Error().Err(err).Str("line", line).Msg("skipping malformed tick")
			continue
		}
		m.Update(name, price)
	}
	return scanner.Err()
}

func parseTick(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("expected \"name price\", got %q", line)
	}
	price, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], price, nil
}
