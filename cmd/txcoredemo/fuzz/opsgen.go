package fuzz

import (
	"math/rand"

	"github.com/relixdb/txcore/pkg/common"
)

// OpsGenerator produces a fixed-length randomized stream of Operations,
// weighted towards reads and updates over inserts so a bench run mostly
// contends on a small, steadily churning set of rows.
type OpsGenerator struct {
	r     *rand.Rand
	count int
	txnID common.TxnID
}

func NewOpsGenerator(r *rand.Rand, count int, firstTxnID common.TxnID) *OpsGenerator {
	return &OpsGenerator{r: r, count: count, txnID: firstTxnID}
}

func (g *OpsGenerator) genRandomOp() Operation {
	weights := []OpType{OpScan, OpScan, OpUpdate, OpUpdate, OpDelete, OpInsert}
	op := Operation{
		Type:  weights[g.r.Intn(len(weights))],
		TxnID: g.txnID,
	}
	g.txnID++
	return op
}

func (g *OpsGenerator) Gen() chan Operation {
	ch := make(chan Operation)

	go func() {
		defer close(ch)
		for i := 0; i < g.count; i++ {
			ch <- g.genRandomOp()
		}
	}()

	return ch
}
