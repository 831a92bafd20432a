package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/clock"
	"main/internal/intent"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/persist"
	"main/internal/registry"
	"main/internal/schema"
	"main/pkg/conn"
)

func main() {
	if err := run(); err != nil {
		log.Printf("registry: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to JSON config")
	intentCount := flag.Int("intents", 5, "Number of demo intents to submit")
	pgConn := flag.String("pg-conn", "", "Postgres conn string for the mirror (overrides config)")
	pyroscopeURL := flag.String("pyroscope-url", "", "Pyroscope server address (empty=disabled)")
	wait := flag.Bool("wait", false, "Wait for shutdown signal after the demo run")
	flag.Parse()

	if *pyroscopeURL != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "intent-registry",
			ServerAddress:   *pyroscopeURL,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return err
		}
		defer func() { _ = profiler.Stop() }()
	}

	loaded, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *pgConn != "" {
		loaded.Mirror = ops.MirrorConfig{Enabled: true, ConnString: *pgConn}
	}

	var mirror *persist.Mirror
	if loaded.Mirror.Enabled {
		client, err := conn.New(conn.Option{ConnString: loaded.Mirror.ConnString})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		mirror, err = persist.NewMirror(client)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	queue := bus.NewQueue(loaded.QueueCapacity)
	metrics := obs.NewMetrics()
	reg, err := registry.New(loaded.Config, logTransferer{}, registry.Option{
		Clock:   clock.New(loaded.StartHeight),
		Queue:   queue,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx, func(n schema.Note) {
			if mirror == nil {
				return
			}
			if err := mirror.Apply(n); err != nil {
				logs.Errorf("mirror apply, err: %+v", err)
			}
		})
	}()

	if err := runDemo(reg, loaded.Config, *intentCount); err != nil {
		queue.Close()
		wg.Wait()
		return err
	}

	if *wait {
		<-sys.Shutdown()
	}
	queue.Close()
	wg.Wait()

	printSummary(reg, metrics)
	return nil
}

// runDemo drives one submit/execute/cancel round through the facade.
func runDemo(reg *registry.Registry, cfg schema.Config, count int) error {
	if count <= 0 {
		return fmt.Errorf("intents must be > 0")
	}
	symbol := schema.HashSymbol("BTC-USD")

	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		side := schema.SideBuy
		if i%2 == 1 {
			side = schema.SideSell
		}
		amount := cfg.MinAmount + schema.Amount(i)
		if amount > cfg.MaxAmount {
			amount = cfg.MaxAmount
		}
		id, err := reg.Submit(cfg.Controller, intent.SubmitRequest{
			Side:       side,
			Amount:     amount,
			LimitPrice: schema.Price(100 + i),
			Symbol:     symbol,
		}, cfg.FeeFor(amount))
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	for i, id := range ids {
		if i == len(ids)-1 {
			if err := reg.Cancel(cfg.Controller, id); err != nil {
				return err
			}
			continue
		}
		it, err := reg.GetIntent(id)
		if err != nil {
			return err
		}
		if err := reg.Execute(cfg.Keeper, id, it.Amount, it.LimitPrice); err != nil {
			return err
		}
	}

	if balance := reg.TreasuryBalance(); balance > 0 {
		if err := reg.Withdraw(cfg.Owner, cfg.Owner, balance); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(reg *registry.Registry, metrics *obs.Metrics) {
	pending, executed, cancelled := reg.Counts()
	log.Printf("intents: total=%d pending=%d executed=%d cancelled=%d", reg.IntentCount(), pending, executed, cancelled)
	log.Printf("rates: fill=%dbps execution=%dbps cancellation=%dbps",
		reg.FillRateBps(), reg.ExecutionRateBps(), reg.CancellationRateBps())
	snapshot := metrics.Snapshot()
	log.Printf("metrics: notes=%v rejections=%d drops=%d closed=%d submit=%+v execute=%+v",
		snapshot.NoteCounts, snapshot.Rejections, snapshot.QueueDrops, snapshot.QueueClosed,
		snapshot.SubmitLatency, snapshot.ExecuteLatency)
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return defaultLoaded()
	}
	return ops.Load(path)
}

func defaultLoaded() (ops.Loaded, error) {
	owner, err := schema.ParseAddress("0x00000000000000000000000000000000000000a1")
	if err != nil {
		return ops.Loaded{}, err
	}
	controller, err := schema.ParseAddress("0x00000000000000000000000000000000000000b2")
	if err != nil {
		return ops.Loaded{}, err
	}
	keeper, err := schema.ParseAddress("0x00000000000000000000000000000000000000c3")
	if err != nil {
		return ops.Loaded{}, err
	}
	return ops.Loaded{
		Config: schema.Config{
			Owner:      owner,
			Controller: controller,
			Keeper:     keeper,
			FeeBps:     25,
			MinAmount:  1,
			MaxAmount:  1_000_000_000,
		},
		StartHeight:   0,
		QueueCapacity: 1024,
	}, nil
}

// logTransferer stands in for the external value-transfer primitive.
type logTransferer struct{}

func (logTransferer) Transfer(to schema.Address, amount schema.Amount) error {
	logs.Infof("transfer %d to %s", amount, to)
	return nil
}
