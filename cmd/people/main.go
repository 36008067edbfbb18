package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/S0me0neR0man/multiindex/internal/config"
	"github.com/S0me0neR0man/multiindex/internal/multiindex"
)

func main() {
	args := os.Args[1:]
	path, err := config.ConfigPath(args)
	if err != nil {
		log.Fatal(err)
	}
	conf, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := conf.ParseFlags(args); err != nil {
		log.Fatal(err)
	}

	logger, err := conf.Log.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(os.Stdout, conf, logger); err != nil {
		logger.Fatal("people", zap.Error(err))
	}
}

func run(w io.Writer, conf *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	people, err := loadPeople(conf.Seed)
	if err != nil {
		return err
	}

	mi := multiindex.New[People](multiindex.WithConfig(conf), multiindex.WithLogger(logger))
	if err := buildIndices(mi); err != nil {
		return err
	}
	mi.Reserve(len(people))

	for _, p := range people {
		if _, err := mi.AddData(p); err != nil {
			sugar.Warnw("skip record", "id", p.ID, "err", err)
		}
	}
	sugar.Debugw("loaded", "records", mi.Len(), "indices", mi.IndexCount(), "policy", mi.Policy())

	fmt.Fprintln(w, "Find by id = 3")
	if idxID, ok := multiindex.GetIndex(mi, fieldID); ok {
		if p, ok := idxID.FindFirst(3); ok {
			fmt.Fprintln(w, p)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find for 'Fernanda'")
	if idxName, ok := multiindex.GetIndex(mi, fieldName); ok {
		key := "Fernanda"
		for it := idxName.Find(key); !it.AtEnd() && it.Key() == key; it.Next() {
			fmt.Fprintln(w, it.Record())
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find by email = 'paul2@email.com'")
	if idxEmail, ok := multiindex.GetIndex(mi, fieldEmail); ok {
		if p, ok := idxEmail.FindFirst("paul2@email.com"); ok {
			fmt.Fprintln(w, p)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Find for 'Rafael' with age = 35 and height = 1.70")
	if idx, ok := multiindex.GetCompositeIndex3(mi, fieldName, fieldAge, fieldHeight); ok {
		key := multiindex.MakeKey3("Rafael", 35, 1.70)
		for it := idx.Find(key); !it.AtEnd() && it.Key() == key; it.Next() {
			fmt.Fprintln(w, it.Record())
		}
	}

	return nil
}
