package main

import (
	"context"

	"github.com/relixdb/txcore/cmd/txcoredemo/app"
)

func main() {
	app.MustExecute(context.Background())
}
