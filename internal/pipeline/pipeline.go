// Package pipeline sequences the deploy steps. Execution is strictly
// sequential: each step blocks on the previous one and the first failure
// stops the run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alvesdmateus/resume-deploy/internal/envcheck"
	"github.com/alvesdmateus/resume-deploy/internal/publisher"
	"github.com/alvesdmateus/resume-deploy/internal/state"
)

// DefaultSchedulerJob is the command the platform scheduler should run.
const DefaultSchedulerJob = "python main.py"

// Step names recorded on failure.
const (
	StepPreflight = "preflight"
	StepProvision = "provision"
	StepBuildpack = "buildpack"
	StepPublish   = "publish"
)

type preflightChecker interface {
	Check(ctx context.Context) error
}

type appProvisioner interface {
	EnsureApp(ctx context.Context, name string) error
}

type buildpackConfigurer interface {
	Configure(ctx context.Context, app string) error
}

type codePublisher interface {
	Publish(ctx context.Context, app string, auth transport.AuthMethod) (string, error)
}

type tokenSource interface {
	AuthToken(ctx context.Context) (string, error)
}

// Recorder persists run history. Implemented by *state.Repository.
type Recorder interface {
	CreateRun(ctx context.Context, run *state.DeployRun) error
	CompleteRun(ctx context.Context, id uuid.UUID, gitSHA string) error
	FailRun(ctx context.Context, id uuid.UUID, step string, cause error) error
}

// Engine runs the deploy pipeline.
type Engine struct {
	preflight    preflightChecker
	provisioner  appProvisioner
	buildpack    buildpackConfigurer
	publisher    codePublisher
	tokens       tokenSource
	checklist    *envcheck.Checklist
	recorder     Recorder // nil disables history
	out          io.Writer
	buildpackID  string
	schedulerJob string
}

// Options wires an Engine.
type Options struct {
	Preflight    preflightChecker
	Provisioner  appProvisioner
	Buildpack    buildpackConfigurer
	Publisher    codePublisher
	Tokens       tokenSource
	Checklist    *envcheck.Checklist
	Recorder     Recorder
	Out          io.Writer
	BuildpackID  string
	SchedulerJob string
}

// NewEngine creates a pipeline engine.
func NewEngine(opts Options) *Engine {
	if opts.Checklist == nil {
		opts.Checklist = envcheck.NewChecklist(nil)
	}
	if opts.SchedulerJob == "" {
		opts.SchedulerJob = DefaultSchedulerJob
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Engine{
		preflight:    opts.Preflight,
		provisioner:  opts.Provisioner,
		buildpack:    opts.Buildpack,
		publisher:    opts.Publisher,
		tokens:       opts.Tokens,
		checklist:    opts.Checklist,
		recorder:     opts.Recorder,
		out:          opts.Out,
		buildpackID:  opts.BuildpackID,
		schedulerJob: opts.SchedulerJob,
	}
}

// Run executes the pipeline for the resolved application name. With skipPush
// the run ends after the checklist, leaving the push for a later invocation.
func (e *Engine) Run(ctx context.Context, app string, skipPush bool) error {
	run := &state.DeployRun{AppName: app, Buildpack: e.buildpackID}
	e.recordStart(ctx, run)

	log.Info().Str("app", app).Msg("Starting deployment")

	if err := e.preflight.Check(ctx); err != nil {
		e.recordFailure(ctx, run, StepPreflight, err)
		return err
	}

	if err := e.provisioner.EnsureApp(ctx, app); err != nil {
		e.recordFailure(ctx, run, StepProvision, err)
		return err
	}

	if err := e.buildpack.Configure(ctx, app); err != nil {
		e.recordFailure(ctx, run, StepBuildpack, err)
		return err
	}

	fmt.Fprintln(e.out)
	e.checklist.Print(e.out, app)
	fmt.Fprintln(e.out)

	if skipPush {
		fmt.Fprintln(e.out, "Skipping push. Run `resume-deploy deploy` again once the config vars are set.")
		e.recordSuccess(ctx, run, "")
		return nil
	}

	sha, err := e.publish(ctx, app)
	if err != nil {
		e.recordFailure(ctx, run, StepPublish, err)
		return err
	}

	e.printSchedulerInstructions(app)
	e.recordSuccess(ctx, run, sha)

	log.Info().Str("app", app).Str("commit", sha).Msg("Deployment finished")
	return nil
}

func (e *Engine) publish(ctx context.Context, app string) (string, error) {
	token, err := e.tokens.AuthToken(ctx)
	if err != nil {
		// The push may still succeed through ambient git credentials.
		log.Warn().Err(err).Msg("Could not fetch auth token, pushing without explicit credentials")
		token = ""
	}

	return e.publisher.Publish(ctx, app, publisher.TokenAuth(token))
}

// printSchedulerInstructions reminds the operator of the manual dashboard
// steps; the scheduling itself is entirely the platform's job.
func (e *Engine) printSchedulerInstructions(app string) {
	fmt.Fprintf(e.out, "\nDeployment pushed. To run the analyzer periodically:\n\n")
	fmt.Fprintf(e.out, "  1. heroku addons:create scheduler:standard --app %s\n", app)
	fmt.Fprintf(e.out, "  2. heroku addons:open scheduler --app %s\n", app)
	fmt.Fprintf(e.out, "  3. Add a job running `%s` every hour.\n", e.schedulerJob)
}

// History is bookkeeping only: recording failures are logged, never returned.

func (e *Engine) recordStart(ctx context.Context, run *state.DeployRun) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.CreateRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("Could not record deployment run")
	}
}

func (e *Engine) recordSuccess(ctx context.Context, run *state.DeployRun, sha string) {
	if e.recorder == nil || run.ID == uuid.Nil {
		return
	}
	if err := e.recorder.CompleteRun(ctx, run.ID, sha); err != nil {
		log.Warn().Err(err).Msg("Could not record deployment result")
	}
}

func (e *Engine) recordFailure(ctx context.Context, run *state.DeployRun, step string, cause error) {
	if e.recorder == nil || run.ID == uuid.Nil {
		return
	}
	if err := e.recorder.FailRun(ctx, run.ID, step, cause); err != nil {
		log.Warn().Err(err).Msg("Could not record deployment failure")
	}
}
