// Package deepq implements the deep Q-learning agent that plays snake
// from the encoded vision state
package deepq

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/nonlinear/discrete/policy"
	"github.com/samuelfneumann/snakelearn/expreplay"
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/network"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/utils/floatutils"
	"github.com/samuelfneumann/snakelearn/vision"
)

// DeepQ implements the deep Q-learning algorithm. This algorithm is
// conceptually similar to DQN, but uses the MSE loss.
type DeepQ struct {
	// Behaviour egreedy policy, which takes a single state as input
	behaviourPolicy *policy.MultiHeadEGreedyMLP

	// Network whose weights are adapted, which takes batches of inputs
	trainNet   network.NeuralNet
	trainNetVM G.VM
	solver     G.Solver // Adapts the weights of trainNet

	// Network that provides the update target for a batch of inputs
	targetNet   network.NeuralNet
	targetNetVM G.VM

	// Variables to track target network updates
	tau                  float64 // Polyak averaging constant
	targetUpdateInterval int     // Gradient steps between target updates
	gradientSteps        int

	learnInterval     int
	trainAtEpisodeEnd bool
	steps             int

	selectedActions *G.Node // Actions taken at the previous states

	replay expreplay.ExperienceReplayer

	// nextStateActionValues is the input node in the graph of trainNet
	// that is given the action values of the next state. For update:
	//
	// Q(s, a) <- Q(s, a) + α * (r + γ * max Q(s', a') - Q(s, a)) ∇Q(s, a)
	//
	// nextStateActionValues provides Q(s', a') for all a' in s' and is
	// computed by targetNet.
	nextStateActionValues *G.Node
	rewards               *G.Node
	discounts             *G.Node

	// Keep track of previous states and actions to add to replay buffer
	prevStep   ts.TimeStep
	prevAction game.Action
	nextStep   ts.TimeStep

	gamma     float64
	batchSize int
	mode      agent.Mode
	log       logrus.FieldLogger
}

// New creates and returns a new DeepQ agent. If c.LoadPath exists, the
// weights stored there are loaded.
func New(c Config, opts agent.Options) (*DeepQ, error) {
	// Ensure the configuration is valid
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	log := opts.Log()

	batchSize := c.BatchSize()
	init := c.InitWFn.WithSeed(opts.Seed).InitWFn()

	// Network for selecting actions
	g := G.NewGraph()
	net, err := network.NewMultiHeadMLP(vision.NumFeatures, 1,
		game.NumActions, g, c.PolicyLayers, c.Biases, init, c.Activations)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	loaded, err := load(net, c.LoadPath, log)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if !loaded && opts.Mode == agent.Testing {
		log.WithField("path", c.LoadPath).Warn("testing without learned " +
			"weights")
	}

	ε := c.Epsilon.Float64()
	if opts.Mode == agent.Testing {
		ε = 0
	}
	behaviourPolicy, err := policy.NewMultiHeadEGreedyMLP(net, ε, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	// Create the target network which provides the update target
	targetNet, err := net.CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %v",
			err)
	}
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	// Create a training network which learns the weights
	trainNet, err := net.CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learning network: %v",
			err)
	}
	gTrain := trainNet.Graph()

	// Create nodes to compute the update target: r + γ * max[Q(s', a')]
	nextStateActionValues := G.NewMatrix(gTrain, tensor.Float64,
		G.WithShape(batchSize, game.NumActions),
		G.WithName("targetActionVals"), G.WithInit(G.Zeroes()))
	rewards := G.NewVector(gTrain, tensor.Float64, G.WithShape(batchSize),
		G.WithName("reward"), G.WithInit(G.Zeroes()))
	discounts := G.NewVector(gTrain, tensor.Float64, G.WithShape(batchSize),
		G.WithName("discount"), G.WithInit(G.Zeroes()))

	// Compute the update target
	updateTarget := G.Must(G.Max(nextStateActionValues, 1))
	updateTarget = G.Must(G.HadamardProd(updateTarget, discounts))
	updateTarget = G.Must(G.Add(updateTarget, rewards))

	// Action selected in the previous state. This is needed to compute
	// the loss using the correct action value since the network outputs
	// one value per action.
	selectedActions := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithName("actionSelected"),
		G.WithShape(batchSize, game.NumActions),
		G.WithInit(G.Zeroes()),
	)
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))

	// Compute the Mean Squarred TD error
	losses := G.Must(G.Sub(updateTarget, selectedActionsValue))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	// Compute the gradient with respect to the Mean Squarred TD error
	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	// Compile the trainNet graph into a VM
	trainNetVM := G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	// Create the experience replay buffer. The replay buffer stores
	// actions selected as one-hot vectors
	replay, err := c.ExpReplay.Create(opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %v", err)
	}

	return &DeepQ{
		behaviourPolicy:       behaviourPolicy,
		trainNet:              trainNet,
		trainNetVM:            trainNetVM,
		solver:                c.Solver.Config.Create(),
		targetNet:             targetNet,
		targetNetVM:           targetNetVM,
		tau:                   c.Tau,
		targetUpdateInterval:  c.TargetUpdateInterval,
		learnInterval:         c.LearnInterval,
		trainAtEpisodeEnd:     c.TrainAtEpisodeEnd,
		selectedActions:       selectedActions,
		replay:                replay,
		nextStateActionValues: nextStateActionValues,
		rewards:               rewards,
		discounts:             discounts,
		gamma:                 c.Gamma,
		batchSize:             batchSize,
		mode:                  opts.Mode,
		log:                   log,
	}, nil
}

// load sets the weights of net from the file at path and reports
// whether any were read. A missing file leaves net at its initial
// weights.
func load(net network.NeuralNet, path string,
	log logrus.FieldLogger) (bool, error) {
	if path == "" {
		return false, nil
	}

	err := network.LoadWeights(net, path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("no weights found, starting " +
			"from initial weights")
		return false, nil
	} else if err != nil {
		return false, err
	}

	log.WithField("path", path).Info("loaded weights")
	return true, nil
}

// ObserveFirst observes and records the first episodic timestep
func (d *DeepQ) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		d.log.Warnf("ObserveFirst() should only be called on the first "+
			"timestep (current timestep = %d)", t.Number)
	}
	d.prevStep = ts.TimeStep{}
	d.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first
// timestep. In training mode the transition is added to the replay
// buffer.
func (d *DeepQ) Observe(action game.Action, nextStep ts.TimeStep) error {
	if !action.Valid() {
		return fmt.Errorf("observe: illegal action %d", action)
	}

	d.prevStep = d.nextStep
	d.prevAction = action
	d.nextStep = nextStep

	if d.mode == agent.Testing {
		return nil
	}

	transition := ts.NewTransition(d.prevStep, action, nextStep, action)
	transition.Discount = d.discount(transition)
	if err := d.replay.Add(transition); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	return nil
}

// discount returns the discount applied to the next state value of t
func (d *DeepQ) discount(t ts.Transition) float64 {
	if t.Terminal {
		return 0
	}
	return d.gamma
}

// Step counts an environment step and, every LearnInterval steps in
// training mode, updates the weights of the Agent's networks.
func (d *DeepQ) Step() error {
	if d.mode == agent.Testing {
		return nil
	}

	d.steps++
	if d.learnInterval == 0 || d.steps%d.learnInterval != 0 {
		return nil
	}
	return d.learn()
}

// learn takes a single gradient step on a batch sampled from the
// replay buffer. Nothing is learned until the buffer holds at least one
// batch of transitions.
func (d *DeepQ) learn() error {
	S, A, R, discount, NextS, err := d.replay.Sample()
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("learn: %w", err)
	}

	// Previous action one-hot vectors
	prevActions := tensor.New(
		tensor.WithShape(d.batchSize, game.NumActions),
		tensor.WithBacking(A),
	)
	if err := G.Let(d.selectedActions, prevActions); err != nil {
		return fmt.Errorf("learn: could not set selected actions: %v", err)
	}

	// Predict the action values in state S
	if err := d.trainNet.SetInput(S); err != nil {
		return fmt.Errorf("learn: could not set trainNet input: %v", err)
	}

	// Predict the action values in the next state NextS
	if err := d.targetNet.SetInput(NextS); err != nil {
		return fmt.Errorf("learn: could not set target net input: %v", err)
	}

	// Compute the next state-action values
	if err := d.targetNetVM.RunAll(); err != nil {
		return fmt.Errorf("learn: could not run target net: %v", err)
	}

	// Set the action values for the actions in the next state. The
	// value is cloned since the target net VM reuses its output.
	nextValues := d.targetNet.Output().(*tensor.Dense).Clone().(*tensor.Dense)
	d.targetNetVM.Reset()
	if err := G.Let(d.nextStateActionValues, nextValues); err != nil {
		return fmt.Errorf("learn: could not set next state-action "+
			"values: %v", err)
	}

	// Set the reward for the current action
	rewardTensor := tensor.New(tensor.WithBacking(R),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.rewards, rewardTensor); err != nil {
		return fmt.Errorf("learn: could not set reward: %v", err)
	}

	// Set the discount for the next action value
	discountTensor := tensor.New(tensor.WithBacking(discount),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.discounts, discountTensor); err != nil {
		return fmt.Errorf("learn: could not set discount: %v", err)
	}

	// Run the learning step
	if err := d.trainNetVM.RunAll(); err != nil {
		return fmt.Errorf("learn: could not run train net: %v", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return fmt.Errorf("learn: could not step solver: %v", err)
	}
	d.trainNetVM.Reset()
	d.gradientSteps++

	// Update the target network by setting its weights to the newly
	// learned weights
	if d.gradientSteps%d.targetUpdateInterval == 0 {
		if d.tau == 1.0 {
			err = d.targetNet.Set(d.trainNet)
		} else {
			err = d.targetNet.Polyak(d.trainNet, d.tau)
		}
		if err != nil {
			return fmt.Errorf("learn: could not update target net: %v", err)
		}
	}

	if err := d.behaviourPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("learn: could not update policy: %v", err)
	}
	return nil
}

// SelectAction returns an action selected by the behaviour policy. In
// testing mode the policy is greedy.
func (d *DeepQ) SelectAction(t ts.TimeStep) game.Action {
	action, err := d.behaviourPolicy.SelectAction(t.Observation)
	if err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	return action
}

// ActionValues returns the predicted value of each action in s
func (d *DeepQ) ActionValues(s vision.State) ([game.NumActions]float64,
	error) {
	return d.behaviourPolicy.ActionValues(s)
}

// TdError calculates the TD error generated by the learner on some
// transition.
func (d *DeepQ) TdError(t ts.Transition) float64 {
	values, err := d.ActionValues(t.State)
	if err != nil {
		panic(fmt.Sprintf("tderror: %v", err))
	}
	target := t.Reward

	if !t.Terminal {
		nextValues, err := d.ActionValues(t.NextState)
		if err != nil {
			panic(fmt.Sprintf("tderror: %v", err))
		}
		target += d.gamma * floatutils.Max(nextValues[:]...)
	}

	return target - values[t.Action]
}

// EndEpisode takes a final gradient step at the end of an episode if
// the agent is configured to do so.
func (d *DeepQ) EndEpisode() error {
	if d.mode == agent.Testing || !d.trainAtEpisodeEnd {
		return nil
	}
	return d.learn()
}

// Mode returns the mode the agent was created in
func (d *DeepQ) Mode() agent.Mode {
	return d.mode
}

// SetEpsilon sets the exploration rate of the behaviour policy. It is
// ignored in testing mode.
func (d *DeepQ) SetEpsilon(ε float64) {
	if d.mode == agent.Testing {
		return
	}
	d.behaviourPolicy.SetEpsilon(ε)
}

// Epsilon returns the exploration rate of the behaviour policy
func (d *DeepQ) Epsilon() float64 {
	return d.behaviourPolicy.Epsilon()
}

// GradientSteps returns the number of gradient steps taken so far
func (d *DeepQ) GradientSteps() int {
	return d.gradientSteps
}

// Save writes the learned weights to filename
func (d *DeepQ) Save(filename string) error {
	if err := network.SaveWeights(d.trainNet, filename); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	d.log.WithField("path", filename).Debug("saved weights")
	return nil
}

// Close releases the VMs held by the agent
func (d *DeepQ) Close() error {
	errs := []error{
		d.behaviourPolicy.Close(),
		d.trainNetVM.Close(),
		d.targetNetVM.Close(),
	}
	return errors.Join(errs...)
}
