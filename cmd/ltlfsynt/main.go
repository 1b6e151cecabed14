// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

// ltlfsynt translates LTLf formulas into MTDFAs and solves the
// associated reactive-synthesis game.
//
//	ltlfsynt -f 'G (req -> X grant)' --outs grant
//
// prints the realizability verdict; --dot dumps the automaton, the
// strategy, the Mealy machine or the game arena in Graphviz syntax.
package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
	"github.com/ltlfsynt/ltlfsynt/mtdfa"
)

type options struct {
	formula         string
	outs            []string
	ins             []string
	translation     string
	composition     string
	backprop        string
	semantics       string
	polarity        string
	globalEquiv     string
	decompose       bool
	minimize        bool
	realizability   bool
	preprocess      bool
	simplifyFormula bool
	simplifyTerms   bool // derived from globalEquiv
	fuseSameBDDs    bool
	dot             string
	labels          bool
	stats           bool
	verbose         bool
}

// yesNo validates a {yes, no, before-decompose} option value and
// reports whether the feature is enabled.
func yesNo(name, value string) (bool, error) {
	switch value {
	case "yes", "before-decompose":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fmt.Errorf("--%s accepts yes, no or before-decompose, not %q", name, value)
}

func main() {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "ltlfsynt",
		Short:         "LTLf translation and reactive synthesis via MTDFAs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if opts.formula == "" && len(args) == 1 {
				opts.formula = args[0]
			}
			if opts.formula == "" {
				return fmt.Errorf("no formula given, use --formula")
			}
			return run(opts)
		},
	}
	flags := cmd.Flags()
	addFlags(flags, opts)

	if err := cmd.Execute(); err != nil {
		if err == errUnrealizable {
			fmt.Println("UNREALIZABLE")
			os.Exit(1)
		}
		log.Error(err)
		os.Exit(2)
	}
}

func addFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.formula, "formula", "f", "", "LTLf formula to process")
	flags.StringSliceVar(&opts.outs, "outs", nil, "comma-separated controllable propositions")
	flags.StringSliceVar(&opts.ins, "ins", nil, "comma-separated uncontrollable propositions (checked against the formula)")
	flags.StringVar(&opts.translation, "translation", "direct",
		"translation: direct, compositional, direct-restricted, dfs-on-the-fly, dfs-strict-on-the-fly, bfs-on-the-fly")
	flags.StringVar(&opts.composition, "composition", "size", "compositional ordering: size, ap")
	flags.StringVar(&opts.backprop, "backprop", "nodes", "solver granularity: nodes, states, trival-states")
	flags.StringVar(&opts.semantics, "semantics", "Mealy", "variable-order semantics: Mealy, Moore")
	flags.StringVar(&opts.polarity, "polarity", "yes", "fix single-polarity output variables: yes, no, before-decompose")
	flags.StringVar(&opts.globalEquiv, "global-equivalence", "yes", "collapse propositionally equivalent subformulas: yes, no, before-decompose")
	flags.BoolVar(&opts.decompose, "decompose", false, "decompose output-disjoint conjuncts into independent games (realizability only)")
	flags.BoolVar(&opts.minimize, "minimize", true, "minimize (intermediate) automata")
	flags.BoolVar(&opts.realizability, "realizability", false, "only decide realizability, skip strategy extraction")
	flags.BoolVar(&opts.preprocess, "one-step-preprocess", true, "apply the one-step (un)realizability rewrites")
	flags.BoolVar(&opts.simplifyFormula, "simplify-formula", false, "rewrite the formula in negative normal form first")
	flags.BoolVar(&opts.fuseSameBDDs, "fuse-same-bdds", true, "coalesce states with identical MTBDDs")
	flags.StringVar(&opts.dot, "dot", "", "print a Graphviz dump: dfa, strategy, mealy, backprop")
	flags.BoolVar(&opts.labels, "labels", false, "label states with their formulas in dumps")
	flags.BoolVar(&opts.stats, "stats", false, "print automaton statistics")
	flags.BoolVar(&opts.verbose, "verbose", false, "verbose logging")
}

var errUnrealizable = fmt.Errorf("unrealizable")

func run(opts *options) error {
	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	polarity, err := yesNo("polarity", opts.polarity)
	if err != nil {
		return err
	}
	simplifyTerms, err := yesNo("global-equivalence", opts.globalEquiv)
	if err != nil {
		return err
	}
	opts.simplifyTerms = simplifyTerms

	f, err := ltlf.Parse(opts.formula)
	if err != nil {
		return err
	}
	if opts.simplifyFormula {
		f = ltlf.Nnf(f)
	}
	if polarity && opts.realizability && len(opts.outs) > 0 {
		// single-polarity outputs can be fixed up front; this is
		// only a realizability-preserving rewrite, so strategy
		// extraction keeps the original formula
		simp := ltlf.NewRealizabilitySimplifier(opts.outs)
		if g, fixes := simp.Simplify(f); len(fixes) > 0 {
			log.WithField("fixed", len(fixes)).Debug("polarity simplification")
			f = g
		}
	}
	log.WithField("formula", f.String()).Debug("parsed")

	if len(opts.ins) > 0 {
		known := make(map[string]bool)
		for _, ap := range opts.ins {
			known[ap] = true
		}
		for _, ap := range opts.outs {
			known[ap] = true
		}
		for _, ap := range ltlf.CollectAtoms(f) {
			if !known[ap] {
				return fmt.Errorf("proposition %q is neither in --ins nor in --outs", ap)
			}
		}
	}

	trans, err := mtdfa.ParseTranslation(opts.translation)
	if err != nil {
		return err
	}
	comp, err := mtdfa.ParseComposition(opts.composition)
	if err != nil {
		return err
	}
	bpmode, err := mtdfa.ParseBackpropMode(opts.backprop)
	if err != nil {
		return err
	}
	sem, err := mtdfa.ParseSemantics(opts.semantics)
	if err != nil {
		return err
	}

	dict := mtbdd.NewDict()
	if len(opts.outs) > 0 {
		mtdfa.PreregisterSemantics(dict, f, opts.outs, sem, dict)
	}

	if len(opts.outs) == 0 {
		return runTranslate(opts, f, dict, trans, comp)
	}
	if opts.decompose && opts.realizability {
		if parts := decomposeByOutputs(f, opts.outs); len(parts) > 1 {
			log.WithField("parts", len(parts)).Debug("decomposed specification")
			for _, part := range parts {
				if err := runSynthesisQuiet(opts, part, dict, trans, comp, bpmode); err != nil {
					return err
				}
			}
			fmt.Println("REALIZABLE")
			return nil
		}
	}
	return runSynthesis(opts, f, dict, trans, comp, bpmode)
}

// decomposeByOutputs splits a top-level conjunction into groups of
// conjuncts that share output variables. Groups are independent
// games: the conjunction is realizable exactly when every group is,
// because strategies over disjoint outputs compose.
func decomposeByOutputs(f *ltlf.Formula, outs []string) []*ltlf.Formula {
	if !f.Is(ltlf.OpAnd) {
		return []*ltlf.Formula{f}
	}
	isOut := make(map[string]bool, len(outs))
	for _, o := range outs {
		isOut[o] = true
	}
	n := f.Size()
	outsets := make([]map[string]bool, n)
	for i := 0; i < n; i++ {
		set := make(map[string]bool)
		for _, ap := range ltlf.CollectAtoms(f.Child(i)) {
			if isOut[ap] {
				set[ap] = true
			}
		}
		outsets[i] = set
	}
	// merge conjuncts transitively while they share an output
	group := make([]int, n)
	for i := range group {
		group[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if group[i] != i {
			group[i] = find(group[i])
		}
		return group[i]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			shared := false
			for ap := range outsets[i] {
				if outsets[j][ap] {
					shared = true
					break
				}
			}
			if shared {
				group[find(j)] = find(i)
			}
		}
	}
	buckets := make(map[int][]*ltlf.Formula)
	var order []int
	for i := 0; i < n; i++ {
		r := find(i)
		if _, ok := buckets[r]; !ok {
			order = append(order, r)
		}
		buckets[r] = append(buckets[r], f.Child(i))
	}
	parts := make([]*ltlf.Formula, 0, len(order))
	for _, r := range order {
		parts = append(parts, ltlf.And(buckets[r]...))
	}
	return parts
}

func runTranslate(opts *options, f *ltlf.Formula, dict *mtbdd.Dict, trans mtdfa.Translation, comp mtdfa.Composition) error {
	start := time.Now()
	var dfa *mtdfa.MTDFA
	switch trans {
	case mtdfa.TransCompositional:
		dfa = mtdfa.LtlfToMTDFACompose(f, dict, opts.minimize, comp == mtdfa.CompositionAP,
			opts.labels, opts.fuseSameBDDs, opts.simplifyTerms)
	default:
		dfa = mtdfa.LtlfToMTDFA(f, dict, opts.fuseSameBDDs, opts.simplifyTerms, true)
		if opts.minimize {
			dfa = mtdfa.Minimize(dfa)
		}
	}
	log.WithFields(log.Fields{
		"states":   dfa.NumRoots(),
		"duration": time.Since(start),
	}).Debug("translated")

	if opts.stats {
		printStats(dfa)
	}
	switch opts.dot {
	case "dfa":
		dfa.PrintDot(os.Stdout, -1, opts.labels)
	case "backprop":
		mtdfa.ToBackprop(dfa, false, opts.labels).PrintDot(os.Stdout)
	case "":
	default:
		return fmt.Errorf("--dot=%s requires --outs", opts.dot)
	}
	if dfa.IsEmpty() {
		fmt.Println("EMPTY")
	}
	return nil
}

// runSynthesisQuiet solves one game without reporting a positive
// verdict, used by the decomposition loop.
func runSynthesisQuiet(opts *options, f *ltlf.Formula, dict *mtbdd.Dict, trans mtdfa.Translation, comp mtdfa.Composition, bpmode mtdfa.BackpropMode) error {
	sub := *opts
	sub.dot = ""
	sub.stats = false
	return synthesize(&sub, f, dict, trans, comp, bpmode, true)
}

func runSynthesis(opts *options, f *ltlf.Formula, dict *mtbdd.Dict, trans mtdfa.Translation, comp mtdfa.Composition, bpmode mtdfa.BackpropMode) error {
	return synthesize(opts, f, dict, trans, comp, bpmode, false)
}

func synthesize(opts *options, f *ltlf.Formula, dict *mtbdd.Dict, trans mtdfa.Translation, comp mtdfa.Composition, bpmode mtdfa.BackpropMode, quiet bool) error {
	start := time.Now()
	var strategy *mtdfa.MTDFA

	switch trans {
	case mtdfa.TransBFSOnTheFly, mtdfa.TransDFSOnTheFly, mtdfa.TransDFSStrictOnTheFly:
		mode := mtdfa.BFSNodeBackprop
		if trans == mtdfa.TransDFSOnTheFly {
			mode = mtdfa.DFSNodeBackprop
		} else if trans == mtdfa.TransDFSStrictOnTheFly {
			mode = mtdfa.DFSStrictNodeBackprop
		}
		strategy = mtdfa.LtlfToMTDFAForSynthesis(f, dict, opts.outs, mode,
			opts.preprocess, opts.realizability, opts.fuseSameBDDs, opts.simplifyTerms)
	default:
		var dfa *mtdfa.MTDFA
		if trans == mtdfa.TransCompositional {
			dfa = mtdfa.LtlfToMTDFACompose(f, dict, opts.minimize, comp == mtdfa.CompositionAP,
				opts.labels, opts.fuseSameBDDs, opts.simplifyTerms)
			if err := dfa.SetControllableNames(opts.outs, true); err != nil {
				return err
			}
		} else if trans == mtdfa.TransDirectRestricted {
			dfa = mtdfa.LtlfToMTDFAForSynthesis(f, dict, opts.outs, mtdfa.StateRefine,
				opts.preprocess, opts.realizability, opts.fuseSameBDDs, opts.simplifyTerms)
		} else {
			dfa = mtdfa.LtlfToMTDFA(f, dict, opts.fuseSameBDDs, opts.simplifyTerms, true)
			if err := dfa.SetControllableNames(opts.outs, true); err != nil {
				return err
			}
		}
		log.WithFields(log.Fields{
			"states":   dfa.NumRoots(),
			"duration": time.Since(start),
		}).Debug("translated, solving")

		switch bpmode {
		case mtdfa.BackpropStates:
			winning := mtdfa.WinningRegionLazy(dfa)
			if !winning[0] {
				return errUnrealizable
			}
			strategy = mtdfa.WinningStrategy(dfa, false)
		case mtdfa.BackpropTrivalStates:
			winning := mtdfa.WinningRegionLazy3(dfa)
			if !winning[0].IsTrue() {
				return errUnrealizable
			}
			strategy = mtdfa.WinningStrategy(dfa, false)
		default: // nodes
			strategy = mtdfa.WinningStrategy(dfa, true)
		}
		if opts.dot == "backprop" {
			mtdfa.ToBackprop(dfa, false, opts.labels).PrintDot(os.Stdout)
		}
	}

	realizable := !(strategy.NumRoots() == 1 && strategy.States[0] == mtbdd.False)
	log.WithFields(log.Fields{
		"realizable": realizable,
		"duration":   time.Since(start),
	}).Debug("solved")

	if !realizable {
		return errUnrealizable
	}
	if !quiet {
		fmt.Println("REALIZABLE")
	}
	if opts.realizability {
		return nil
	}

	if opts.stats {
		printStats(strategy)
	}
	switch opts.dot {
	case "strategy":
		strategy.PrintDot(os.Stdout, -1, opts.labels)
	case "mealy":
		mealy := mtdfa.StrategyToMealy(strategy, opts.labels)
		mealy.PrintDot(os.Stdout)
	}
	return nil
}

func printStats(dfa *mtdfa.MTDFA) {
	st := dfa.GetStats(true, true)
	fmt.Printf("states=%d aps=%d nodes=%d terminals=%d has_true=%v has_false=%v edges=%d paths=%d\n",
		st.States, st.APs, st.Nodes, st.Terminals, st.HasTrue, st.HasFalse, st.Edges, st.Paths)
}
