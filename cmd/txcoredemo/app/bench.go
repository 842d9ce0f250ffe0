package app

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/cmd/txcoredemo/fuzz"
	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

func initBench() {
	var (
		workers int
		ops     int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Runs a randomized concurrent workload against a shared table through the lock manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(rootCmd.Options.ConfigPath)
			if err != nil {
				return err
			}
			env := loadEnvOverrides()
			if workers <= 0 {
				workers = cfg.BenchWorkers
			}
			if ops <= 0 {
				ops = cfg.BenchOpsPerRun
			}
			seed := env.BenchSeed
			if seed == 0 {
				seed = 1
			}
			return runBench(workers, ops, seed)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent bench workers (0 = use config default)")
	cmd.Flags().IntVar(&ops, "ops", 0, "total operations to generate (0 = use config default)")
	rootCmd.AddCommand(cmd)
}

// benchState is the table and RID pool every bench worker contends over.
type benchState struct {
	mu    sync.Mutex
	table *catalog.TableInfo
	rids  []common.RID
}

func (s *benchState) randomRID(r *rand.Rand) (common.RID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fuzz.PickRandom(r, s.rids)
}

func (s *benchState) addRID(rid common.RID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rids = append(s.rids, rid)
}

func (s *benchState) removeRID(rid common.RID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rids {
		if r == rid {
			s.rids = append(s.rids[:i], s.rids[i+1:]...)
			return
		}
	}
}

func runBench(workers, opCount int, seed int64) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	lm := txns.NewLockManager(log)
	cat := catalog.NewCatalog(nil)
	schema := catalog.NewSchema(
		catalog.Column{Name: "id", Kind: common.ValueInt64},
		catalog.Column{Name: "payload", Kind: common.ValueVarchar},
	)
	table := cat.CreateTable("bench_rows", schema)
	state := &benchState{table: table}

	seedTxn := txns.NewTransaction(0, txns.RepeatableRead)
	for i := int64(0); i < 16; i++ {
		rid, _ := table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(i), common.NewVarchar("seed")), seedTxn)
		state.addRID(rid)
	}

	gen := fuzz.NewOpsGenerator(rand.New(rand.NewSource(seed)), opCount, common.TxnID(1))

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("building worker pool: %w", err)
	}
	defer pool.Release()

	var (
		g         errgroup.Group
		tasks     sync.WaitGroup
		succeeded, aborted int
		counterMu sync.Mutex
	)

	sessionID := uuid.New()
	log.Infow("bench run starting", "session", sessionID, "workers", workers, "ops", opCount, "seed", seed)

	for op := range gen.Gen() {
		op := op
		g.Go(func() error {
			tasks.Add(1)
			err := pool.Submit(func() {
				defer tasks.Done()
				result := runOne(lm, state, op)
				counterMu.Lock()
				if result.Success {
					succeeded++
				} else {
					aborted++
				}
				counterMu.Unlock()
				log.Debugw("op finished", "op", result.Op.String(), "success", result.Success, "err", result.ErrText)
			})
			if err != nil {
				tasks.Done()
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("bench worker pool: %w", err)
	}
	tasks.Wait()

	log.Infow("bench run complete", "session", sessionID, "succeeded", succeeded, "aborted", aborted)
	fmt.Printf("succeeded: %d, aborted: %d\n", succeeded, aborted)
	return nil
}

func runOne(lm *txns.LockManager, state *benchState, op fuzz.Operation) fuzz.OpResult {
	txn := txns.NewTransaction(op.TxnID, txns.RepeatableRead)
	defer lm.ForgetTransaction(txn)

	switch op.Type {
	case fuzz.OpInsert:
		rid, ok := state.table.Heap.InsertTuple(
			catalog.NewTuple(common.NewInt64(int64(op.TxnID)), common.NewVarchar("bench")), txn)
		if !ok {
			return fuzz.OpResult{Op: op, Success: false, ErrText: "insert failed"}
		}
		state.addRID(rid)
		return fuzz.OpResult{Op: op, Success: true}

	case fuzz.OpDelete:
		rid, ok := state.randomRID(rand.New(rand.NewSource(int64(op.TxnID))))
		if !ok {
			return fuzz.OpResult{Op: op, Success: true}
		}
		if err := lm.LockExclusive(txn, rid); err != nil {
			return fuzz.OpResult{Op: op, Success: false, ErrText: err.Error()}
		}
		state.table.Heap.MarkDelete(rid, txn)
		state.removeRID(rid)
		_ = lm.Unlock(txn, rid)
		return fuzz.OpResult{Op: op, Success: true}

	case fuzz.OpUpdate:
		rid, ok := state.randomRID(rand.New(rand.NewSource(int64(op.TxnID))))
		if !ok {
			return fuzz.OpResult{Op: op, Success: true}
		}
		if err := lm.LockExclusive(txn, rid); err != nil {
			return fuzz.OpResult{Op: op, Success: false, ErrText: err.Error()}
		}
		if tup, ok := state.table.Heap.GetTuple(rid); ok {
			updated := catalog.NewTuple(tup.Value(0), common.NewVarchar("updated"))
			state.table.Heap.UpdateTuple(updated, rid, txn)
		}
		_ = lm.Unlock(txn, rid)
		return fuzz.OpResult{Op: op, Success: true}

	case fuzz.OpScan:
		rid, ok := state.randomRID(rand.New(rand.NewSource(int64(op.TxnID))))
		if !ok {
			return fuzz.OpResult{Op: op, Success: true}
		}
		if err := lm.LockShared(txn, rid); err != nil {
			return fuzz.OpResult{Op: op, Success: false, ErrText: err.Error()}
		}
		state.table.Heap.GetTuple(rid)
		_ = lm.Unlock(txn, rid)
		return fuzz.OpResult{Op: op, Success: true}
	}

	return fuzz.OpResult{Op: op, Success: false, ErrText: "unhandled op type"}
}
