// Package config loads the backend configuration: embedded defaults, an
// optional YAML override file, then environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"robosim-backend/models"
	"robosim-backend/simulation"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config - 전체 설정
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Engine    EngineConfig    `yaml:"engine"`
	Results   ResultsConfig   `yaml:"results"`
	Announcer AnnouncerConfig `yaml:"announcer"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	CORSOrigins string `yaml:"cors_origins"`
}

// DatabaseConfig selects the submission store. An empty driver disables it.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SQLitePath string `yaml:"sqlite_path"`
}

// EngineConfig mirrors simulation.Params in YAML-friendly units.
type EngineConfig struct {
	TickMs           int     `yaml:"tick_ms"`
	ArenaWidth       float64 `yaml:"arena_width"`
	ArenaDepth       float64 `yaml:"arena_depth"`
	RobotRadius      float64 `yaml:"robot_radius"`
	MoveStep         float64 `yaml:"move_step"`
	ManualTurnRate   float64 `yaml:"manual_turn_rate"`
	SensorStep       float64 `yaml:"sensor_step"`
	SensorMaxRange   float64 `yaml:"sensor_max_range"`
	PickupRadius     float64 `yaml:"pickup_radius"`
	PushDistance     float64 `yaml:"push_distance"`
	JogDurationMs    int     `yaml:"jog_duration_ms"`
	DefaultSpeed     float64 `yaml:"default_speed"`
	DefaultTurnAngle float64 `yaml:"default_turn_angle"`
	ResumePolicy     string  `yaml:"resume_policy"`
	PlanningCell     float64 `yaml:"planning_cell"` // A* grid resolution for path hints
}

// ResultsConfig - 제출 기록 배치 저장
type ResultsConfig struct {
	FlushSize        int `yaml:"flush_size"`
	FlushIntervalSec int `yaml:"flush_interval_sec"`
}

// AnnouncerConfig - 이벤트 안내 문구
type AnnouncerConfig struct {
	Enabled    bool `yaml:"enabled"`
	CooldownMs int  `yaml:"cooldown_ms"`
}

// CatalogConfig points at an optional external challenge file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Load reads the embedded defaults, overlays the YAML file at path when path
// is non-empty, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only keys present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv - .env / 환경 변수 우선 적용
func (c *Config) applyEnv(getenv func(string) string) {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("ROBOSIM_ADDR", &c.Server.Addr)
	setString("ROBOSIM_CORS_ORIGINS", &c.Server.CORSOrigins)
	setString("ROBOSIM_CATALOG", &c.Catalog.Path)
	setString("DB_DRIVER", &c.Database.Driver)
	setString("MYSQL_HOST", &c.Database.Host)
	setString("MYSQL_USER", &c.Database.User)
	setString("MYSQL_PASSWORD", &c.Database.Password)
	setString("MYSQL_DATABASE", &c.Database.Name)
	setString("SQLITE_PATH", &c.Database.SQLitePath)

	if port, err := strconv.Atoi(getenv("MYSQL_PORT")); err == nil && port > 0 {
		c.Database.Port = port
	}
	if ms, err := strconv.Atoi(getenv("ROBOSIM_TICK_MS")); err == nil && ms > 0 {
		c.Engine.TickMs = ms
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.TickMs <= 0:
		return fmt.Errorf("config: engine.tick_ms must be positive, got %d", e.TickMs)
	case e.ArenaWidth <= 0 || e.ArenaDepth <= 0:
		return fmt.Errorf("config: arena size must be positive, got %vx%v", e.ArenaWidth, e.ArenaDepth)
	case e.RobotRadius <= 0:
		return fmt.Errorf("config: engine.robot_radius must be positive")
	case e.SensorStep <= 0:
		return fmt.Errorf("config: engine.sensor_step must be positive")
	case e.PlanningCell <= 0:
		return fmt.Errorf("config: engine.planning_cell must be positive")
	}
	switch simulation.ResumePolicy(e.ResumePolicy) {
	case simulation.ResumeRestart, simulation.ResumeFromCursor:
	default:
		return fmt.Errorf("config: unknown engine.resume_policy %q", e.ResumePolicy)
	}
	switch c.Database.Driver {
	case "", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	return nil
}

// Params converts the engine section into simulation tuning.
func (e EngineConfig) Params() simulation.Params {
	return simulation.Params{
		TickPeriod:       time.Duration(e.TickMs) * time.Millisecond,
		Arena:            models.ArenaSize{Width: e.ArenaWidth, Depth: e.ArenaDepth},
		RobotRadius:      e.RobotRadius,
		MoveStep:         e.MoveStep,
		ManualTurnRate:   e.ManualTurnRate,
		SensorStep:       e.SensorStep,
		SensorMaxRange:   e.SensorMaxRange,
		PickupRadius:     e.PickupRadius,
		PushDistance:     e.PushDistance,
		JogDuration:      time.Duration(e.JogDurationMs) * time.Millisecond,
		DefaultSpeed:     e.DefaultSpeed,
		DefaultTurnAngle: e.DefaultTurnAngle,
		Resume:           simulation.ResumePolicy(e.ResumePolicy),
	}
}

// DSN - MySQL 접속 문자열
func (d DatabaseConfig) DSN() string {
	port := d.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, port, d.Name)
}

// FlushInterval - 배치 저장 주기
func (r ResultsConfig) FlushInterval() time.Duration {
	return time.Duration(r.FlushIntervalSec) * time.Second
}

// Cooldown - 저우선순위 안내 간격
func (a AnnouncerConfig) Cooldown() time.Duration {
	return time.Duration(a.CooldownMs) * time.Millisecond
}
