package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"planbot/internal/batch"
	"planbot/internal/excel"
	"planbot/internal/presets"
	"planbot/internal/repository"
	"planbot/internal/training"
)

type applyFlags struct {
	weeks      string
	sets       float64
	reps       float64
	load       float64
	rpe        float64
	tags       []string
	maxSets    int
	maxReps    int
	volume     bool
	mode       string
	source     int
	preset     string
	presetsDir string
	dryRun     bool
	xlsx       string
	yes        bool
}

// newApplyCmd builds "apply"; with previewOnly it builds "preview", which never writes.
func newApplyCmd(opts *rootOptions, previewOnly bool) *cobra.Command {
	f := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply [duplicate|progression|adjust|template|reorganize]",
		Short: "Apply a batch operation to the program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, f, args, previewOnly)
		},
	}
	if previewOnly {
		cmd.Use = "preview [duplicate|progression|adjust|template|reorganize]"
		cmd.Short = "Show what a batch operation would change"
	}

	flags := cmd.Flags()
	flags.StringVar(&f.weeks, "weeks", "", "week range, e.g. 1-4 (default: whole program)")
	flags.Float64Var(&f.sets, "sets", 0, "sets increment")
	flags.Float64Var(&f.reps, "reps", 0, "reps increment")
	flags.Float64Var(&f.load, "load", 0, "load increment as a fraction, 0.025 = 2.5%")
	flags.Float64Var(&f.rpe, "rpe", 0, "RPE increment")
	flags.StringSliceVar(&f.tags, "tags", nil, "only exercises with one of these tags")
	flags.IntVar(&f.maxSets, "max-sets", 0, "sets ceiling (default from DEFAULT_MAX_SETS)")
	flags.IntVar(&f.maxReps, "max-reps", 0, "reps ceiling (default from DEFAULT_MAX_REPS)")
	flags.BoolVar(&f.volume, "volume-alert", true, "warn when weekly volume grows more than 10%")
	flags.StringVar(&f.mode, "mode", string(batch.AdjustAdd), "adjustment mode: add or set")
	flags.IntVar(&f.source, "source", 1, "source week for duplicate")
	flags.StringVar(&f.preset, "preset", "", "take action and settings from a preset")
	flags.StringVar(&f.presetsDir, "presets-dir", "", "preset directory (default from PRESETS_DIR)")
	flags.StringVar(&f.xlsx, "xlsx", "", "also write the preview to this xlsx file")
	if !previewOnly {
		flags.BoolVar(&f.dryRun, "dry-run", false, "preview only, do not write the program")
		flags.BoolVarP(&f.yes, "yes", "y", false, "commit even when there are alerts")
	}
	return cmd
}

func runApply(cmd *cobra.Command, opts *rootOptions, f *applyFlags, args []string, previewOnly bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store := repository.NewFileStore(opts.file)
	limits := batch.SafetyLimits{
		MaxSets:             opts.cfg.DefaultMaxSets,
		MaxReps:             opts.cfg.DefaultMaxReps,
		AlertVolumeIncrease: true,
	}
	session := batch.NewSession(store, limits, opts.logger)
	if err := session.Reset(ctx); err != nil {
		return err
	}

	action, cfg, err := f.resolve(cmd, opts, args, session.Config(), limits)
	if err != nil {
		return err
	}
	if err := session.Select(action); err != nil {
		return err
	}
	if err := session.Configure(cfg); err != nil {
		return err
	}
	result, err := session.Preview(ctx)
	if err != nil {
		return err
	}
	printPreview(out, result)

	if f.xlsx != "" {
		before, err := store.Read(ctx)
		if err != nil {
			return err
		}
		if err := excel.ExportPreview(f.xlsx, before, result); err != nil {
			return err
		}
		fmt.Fprintf(out, "preview written to %s\n", f.xlsx)
	}

	if previewOnly || f.dryRun {
		return nil
	}
	if prompt := result.Preview.ConfirmPrompt(); prompt != "" && !f.yes {
		return fmt.Errorf("%s re-run with --yes to commit", prompt)
	}

	committed, err := session.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", committed.Action.Kind(), committed.Outcome)
	return nil
}

func (f *applyFlags) resolve(cmd *cobra.Command, opts *rootOptions, args []string, base batch.Config, limits batch.SafetyLimits) (batch.Action, batch.Config, error) {
	flags := cmd.Flags()

	if f.preset != "" {
		dir := f.presetsDir
		if dir == "" {
			dir = opts.cfg.PresetsDir
		}
		lib := presets.NewLibrary(dir, opts.logger)
		if err := lib.Load(); err != nil {
			return nil, batch.Config{}, err
		}
		p, err := lib.Get(f.preset)
		if err != nil {
			return nil, batch.Config{}, err
		}
		action, cfg, err := p.Resolve(base.WeekRange.End, limits)
		if err != nil {
			return nil, batch.Config{}, err
		}
		if flags.Changed("weeks") {
			if cfg.WeekRange, err = batch.ParseWeekRange(f.weeks); err != nil {
				return nil, batch.Config{}, err
			}
		}
		return action, cfg, nil
	}

	if len(args) == 0 {
		return nil, batch.Config{}, fmt.Errorf("%w: pass an action or --preset", batch.ErrUnknownAction)
	}

	cfg := base
	if f.weeks != "" {
		r, err := batch.ParseWeekRange(f.weeks)
		if err != nil {
			return nil, batch.Config{}, err
		}
		cfg.WeekRange = r
	}
	cfg.Increments = batch.Increments{Sets: f.sets, Reps: f.reps, LoadPercentage: f.load, RPE: f.rpe}
	if len(f.tags) > 0 {
		cfg.Filters = batch.Filters{Tags: f.tags}
	}
	if flags.Changed("max-sets") {
		cfg.SafetyLimits.MaxSets = f.maxSets
	}
	if flags.Changed("max-reps") {
		cfg.SafetyLimits.MaxReps = f.maxReps
	}
	cfg.SafetyLimits.AlertVolumeIncrease = f.volume
	cfg.AdjustmentType = batch.AdjustmentType(f.mode)

	action, err := batch.ParseAction(args[0], f.source, cfg.AdjustmentType)
	if err != nil {
		return nil, batch.Config{}, err
	}
	return action, cfg, nil
}

func printPreview(out io.Writer, r *batch.Result) {
	fmt.Fprintf(out, "%s: %s\n", r.Action.Kind().Title(), r.Config.Summary())
	if r.Outcome == batch.OutcomeUnsupported {
		fmt.Fprintln(out, "not supported yet, the program stays unchanged")
		return
	}
	p := r.Preview
	fmt.Fprintf(out, "exercises changed: %d, sets added: %d, sets removed: %d\n", p.ExercisesTouched, p.SetsAdded, p.SetsRemoved)
	for _, v := range p.WeekVolumes {
		fmt.Fprintf(out, "  week %d: %g -> %g\n", v.Week, v.Before, v.After)
	}
	for _, msg := range p.Messages() {
		fmt.Fprintf(out, "! %s\n", msg)
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print a per-week summary of the program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := repository.NewFileStore(opts.file).Read(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d weeks)\n", p.Name, p.TotalWeeks())
			for i := range p.Weeks {
				week := &p.Weeks[i]
				exercises := week.Exercises()
				sets := 0
				for _, ex := range exercises {
					sets += len(ex.Sets)
				}
				fmt.Fprintf(out, "  week %d: %d exercises, %d sets, volume %g\n", i+1, len(exercises), sets, week.Volume())
			}
			return nil
		},
	}
}

func newPresetsCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = opts.cfg.PresetsDir
			}
			lib := presets.NewLibrary(dir, opts.logger)
			if err := lib.Load(); err != nil {
				return err
			}
			for _, p := range lib.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-12s %s\n", p.Name, p.Action, p.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "preset directory (default from PRESETS_DIR)")
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		from  string
		name  string
		id    int
		weeks int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the program file from a one-week text template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.file); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", opts.file)
			}
			text, err := os.ReadFile(from)
			if err != nil {
				return err
			}
			p, err := training.ParseProgram(id, name, string(text), weeks)
			if err != nil {
				return err
			}
			if err := repository.NewFileStore(opts.file).Replace(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d weeks written to %s\n", p.Name, p.TotalWeeks(), opts.file)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "text file with one week of training")
	cmd.Flags().StringVar(&name, "name", "Program", "program name")
	cmd.Flags().IntVar(&id, "id", 1, "program id")
	cmd.Flags().IntVar(&weeks, "weeks", 4, "number of weeks")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.MarkFlagRequired("from")
	return cmd
}
