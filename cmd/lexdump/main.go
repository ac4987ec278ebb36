// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Command lexdump lexes a file (or stdin) with the default C-style
// kernel and prints the resulting token stream, one per line. It exists
// as a driver for exercising the lexer package end to end.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/BlackRookSoftware/CommonLang/diag"
	"github.com/BlackRookSoftware/CommonLang/kernel"
	"github.com/BlackRookSoftware/CommonLang/lexer"
)

// CLI is the lexdump command line, parsed by kong.
type CLI struct {
	File  string `arg:"" optional:"" help:"Source file to lex. Reads stdin if omitted."`
	Debug bool   `help:"Log each emitted token to stderr via slog."`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("lexdump"),
		kong.Description("Dump the CommonLang token stream for a source file."),
		kong.UsageOnError(),
	)

	if err := run(cli); err != nil {
		fmt.Fprintln(os.Stderr, "lexdump:", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	k := kernel.Default()

	var lx *lexer.Lexer
	if cli.File == "" {
		lx = lexer.New(k, "<stdin>", os.Stdin)
	} else {
		f, err := os.Open(cli.File)
		if err != nil {
			return err
		}
		defer f.Close()
		lx = lexer.New(k, cli.File, f)
	}

	if cli.Debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		lx.SetDiagnostics(diag.NewSlogSink(logger), true)
	}

	for {
		tok, err := lx.Next()
		if err != nil {
			return err
		}
		if tok == nil {
			return nil
		}
		fmt.Printf("%s:%d\t%s\t%q\n", tok.StreamName, tok.LineNumber, tok.Type, tok.Lexeme)
	}
}
