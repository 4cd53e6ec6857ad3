// Command lurkproof is the thin CLI wiring prove/verify against files on
// disk (spec §2 component K), built on gopkg.in/urfave/cli.v1.
package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/probeum/lurk-snark/config"
	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/internal/log"
	"github.com/probeum/lurk-snark/prove"
	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
	"github.com/probeum/lurk-snark/verify"
)

var (
	configFlag = cli.StringFlag{Name: "config", Usage: "TOML session configuration"}
	exprFlag   = cli.StringFlag{Name: "expr", Usage: "source expression to evaluate and prove"}
)

func main() {
	app := cli.NewApp()
	app.Name = "lurkproof"
	app.Usage = "evaluate, prove and verify Lurk-style programs"
	app.Commands = []cli.Command{
		proveCommand,
		verifyCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lurkproof:", err)
		os.Exit(1)
	}
}

var proveCommand = cli.Command{
	Name:   "prove",
	Usage:  "evaluate an expression and produce an aggregated proof",
	Flags:  []cli.Flag{configFlag, exprFlag},
	Action: runProve,
}

var verifyCommand = cli.Command{
	Name:   "verify",
	Usage:  "re-evaluate an expression and verify a freshly generated proof against it",
	Flags:  []cli.Flag{configFlag, exprFlag},
	Action: runVerify,
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if p := c.String(configFlag.Name); p != "" {
		return config.Load(p)
	}
	return config.Default(), nil
}

func runProve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	sess := config.NewSession(cfg)
	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))
	logger.Info("proving session started", "session", sess.ID, "chunk_frame_count", cfg.ChunkFrameCount)

	src := c.String(exprFlag.Name)
	if src == "" {
		return cli.NewExitError("--expr is required", 1)
	}

	s := store.New()
	expr, err := reader.ReadString(s, src)
	if err != nil {
		return fmt.Errorf("lurkproof: parse: %w", err)
	}
	ev := eval.New(s, expr, s.EmptyEnv(), cfg.StepLimit)
	frames, err := ev.Iter()
	if err != nil {
		return fmt.Errorf("lurkproof: evaluate: %w", err)
	}

	srs, err := prove.LoadSRS(cfg.SRSPath, cfg.AllowFakeSRS)
	if err != nil {
		return err
	}
	defer srs.Close()

	agg, err := prove.Aggregate(context.Background(), s, ev.Initial(), frames, cfg.ChunkFrameCount, srs)
	if err != nil {
		logger.Error("proving failed", "err", err)
		return err
	}
	logger.Info("proof generated", "proof_count", agg.ProofCount, "frames", len(frames))
	fmt.Printf("proof_count=%d chunk_frame_count=%d aggregated=%s\n", agg.ProofCount, agg.ChunkFrameCount, agg.Aggregated.String())
	return nil
}

func runVerify(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))

	src := c.String(exprFlag.Name)
	if src == "" {
		return cli.NewExitError("--expr is required", 1)
	}

	s := store.New()
	expr, err := reader.ReadString(s, src)
	if err != nil {
		return fmt.Errorf("lurkproof: parse: %w", err)
	}
	ev := eval.New(s, expr, s.EmptyEnv(), cfg.StepLimit)
	frames, err := ev.Iter()
	if err != nil {
		return fmt.Errorf("lurkproof: evaluate: %w", err)
	}

	srs, err := prove.LoadSRS(cfg.SRSPath, cfg.AllowFakeSRS)
	if err != nil {
		return err
	}
	defer srs.Close()

	agg, err := prove.Aggregate(context.Background(), s, ev.Initial(), frames, cfg.ChunkFrameCount, srs)
	if err != nil {
		return err
	}
	params, err := prove.Setup(cfg.ChunkFrameCount)
	if err != nil {
		return err
	}

	ok, err := verify.Verify(srs, params, agg.PublicInputs, agg.PublicOutputs, agg)
	if err != nil {
		logger.Error("verification failed", "err", err)
		return err
	}
	logger.Info("verification result", "ok", ok)
	fmt.Println("ok:", ok)
	return nil
}
