package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/app/registration"
	"github.com/konekt-network/konekt/internal/daemon"
	"github.com/konekt-network/konekt/internal/domain"
)

func init() {
	registerCmd.Flags().StringVar(&resumeDraft, "resume", "", "Resume an existing draft by ID")
	rootCmd.AddCommand(registerCmd)
}

var resumeDraft string

var registerCmd = &cobra.Command{
	Use:   "register USER",
	Short: "Walk through the sign-up wizard interactively",
	Long: `Prompt for account, profile and interest details, saving the draft
after each step. An interrupted registration can be resumed with --resume.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	var draft domain.Draft
	if resumeDraft != "" {
		draft, err = d.Wizard.Load(ctx, resumeDraft)
	} else {
		draft, err = d.Wizard.Start(ctx, args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Draft %s\n", draft.ID)

	p := &prompter{in: newLineScanner(os.Stdin), out: os.Stderr}
	reg, err := completeDraft(ctx, d.Wizard, draft, p)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(reg)
	}
	fmt.Printf("Welcome, %s! Registration complete.\n", reg.Account.DisplayName)
	return nil
}

// completeDraft prompts for every remaining stage, retrying a stage until
// it validates, then completes the draft.
func completeDraft(ctx context.Context, wiz *registration.Wizard, draft domain.Draft, p *prompter) (domain.Registration, error) {
	for draft.Stage != domain.StageReview && !draft.Done() {
		step, err := p.step(draft.Stage)
		if err != nil {
			return domain.Registration{}, err
		}
		next, err := wiz.Submit(ctx, draft.ID, step)
		if errors.Is(err, domain.ErrInvalidStep) {
			fmt.Fprintf(p.out, "  %v\n", err)
			continue
		}
		if err != nil {
			return domain.Registration{}, err
		}
		draft = next
	}
	return wiz.Complete(ctx, draft.ID)
}

// prompter reads answers line by line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) step(stage domain.Stage) (domain.Step, error) {
	fmt.Fprintf(p.out, "\n== %s ==\n", titleCaser.String(string(stage)))

	var answers []string
	var labels []string
	switch stage {
	case domain.StageAccount:
		labels = []string{"Display name", "Email"}
	case domain.StageProfile:
		labels = []string{"Headline", "Bio", "Location", "Website"}
	case domain.StageInterests:
		labels = []string{"Interests (comma separated)", "Looking for (cofounder, mentor, hire, job, collaborators)"}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStage, stage)
	}
	for _, label := range labels {
		a, err := p.ask(label)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	switch stage {
	case domain.StageAccount:
		return domain.AccountStep{DisplayName: answers[0], Email: answers[1]}, nil
	case domain.StageProfile:
		return domain.ProfileStep{Headline: answers[0], Bio: answers[1], Location: answers[2], Website: answers[3]}, nil
	default:
		return domain.InterestsStep{Interests: splitList(answers[0]), LookingFor: answers[1]}, nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
