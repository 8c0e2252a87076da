// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Load when a loaded value is out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Scene     SceneConfig     `yaml:"scene"`
	Player    PlayerConfig    `yaml:"player"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds sandbox world dimensions.
// World can be larger than the screen; camera handles the viewport.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT                  float64 `yaml:"dt"`                    // Fixed timestep in seconds
	Substeps            int     `yaml:"substeps"`              // Sub-steps per Update
	MaxFrameTime        float64 `yaml:"max_frame_time"`        // Frame time clamp for the accumulator
	GravityX            float64 `yaml:"gravity_x"`
	GravityY            float64 `yaml:"gravity_y"`             // Positive is down (screen space)
	TerminalVelocity    float64 `yaml:"terminal_velocity"`
	GridCellSize        float64 `yaml:"grid_cell_size"`
	BroadPhase          string  `yaml:"broad_phase"`           // grid, grid_rebuild or brute_force
	Filtering           bool    `yaml:"filtering"`
	RestitutionOnStatic bool    `yaml:"restitution_on_static"` // Bounce off static bodies
}

// SceneConfig holds procedural scene parameters.
type SceneConfig struct {
	TerrainColumn    float64 `yaml:"terrain_column"`    // Width of one terrain block
	TerrainBase      float64 `yaml:"terrain_base"`      // Minimum terrain height
	TerrainAmplitude float64 `yaml:"terrain_amplitude"` // Extra height from noise
	NoiseScale       float64 `yaml:"noise_scale"`       // Noise frequency per column
	WallThickness    float64 `yaml:"wall_thickness"`

	Crates          int     `yaml:"crates"`
	CrateSize       float64 `yaml:"crate_size"`
	CrateMass       float64 `yaml:"crate_mass"`
	Balls           int     `yaml:"balls"`
	BallRadius      float64 `yaml:"ball_radius"`
	BallMass        float64 `yaml:"ball_mass"`
	BallRestitution float64 `yaml:"ball_restitution"`
	Coins           int     `yaml:"coins"`
	CoinRadius      float64 `yaml:"coin_radius"`
	CoinValue       int     `yaml:"coin_value"`
	Damping         float64 `yaml:"damping"` // Linear damping for crates and balls
}

// PlayerConfig holds player body and control parameters.
type PlayerConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Mass        float64 `yaml:"mass"`
	Damping     float64 `yaml:"damping"`
	MoveForce   float64 `yaml:"move_force"`   // Horizontal force while a direction is held
	MaxSpeed    float64 `yaml:"max_speed"`    // Horizontal speed above which move force is ignored
	JumpImpulse float64 `yaml:"jump_impulse"` // Upward impulse when grounded
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case !(c.Physics.DT > 0):
		return fmt.Errorf("%w: physics.dt %v", ErrInvalid, c.Physics.DT)
	case c.Physics.Substeps < 1:
		return fmt.Errorf("%w: physics.substeps %d", ErrInvalid, c.Physics.Substeps)
	case !(c.Physics.GridCellSize > 0):
		return fmt.Errorf("%w: physics.grid_cell_size %v", ErrInvalid, c.Physics.GridCellSize)
	case !(c.Physics.TerminalVelocity > 0):
		return fmt.Errorf("%w: physics.terminal_velocity %v", ErrInvalid, c.Physics.TerminalVelocity)
	case c.Telemetry.StatsWindow < 0:
		return fmt.Errorf("%w: telemetry.stats_window %v", ErrInvalid, c.Telemetry.StatsWindow)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	if c.Physics.MaxFrameTime <= 0 {
		c.Physics.MaxFrameTime = 0.25
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
