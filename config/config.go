package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig 是服务进程的 YAML 配置。
type AppConfig struct {
	// Addr HTTP 监听地址，默认 ":8080"
	Addr string `yaml:"addr"`

	// Redis 可选；不配置时使用内存存储
	Redis struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`

	// Feast 可选；配置 host 后启用在线特征注入
	Feast struct {
		Host     string   `yaml:"host"`
		Port     int      `yaml:"port"`
		Project  string   `yaml:"project"`
		Features []string `yaml:"features"`
	} `yaml:"feast"`

	// CacheTTL 推荐结果缓存秒数
	CacheTTL int `yaml:"cache_ttl"`

	// CollabWeight 协同过滤融合权重（0~1）
	CollabWeight float64 `yaml:"collab_weight"`

	// Seed 演示数据的随机种子
	Seed int64 `yaml:"seed"`

	// PipelineFile 可选的后处理 Pipeline 配置文件路径
	PipelineFile string `yaml:"pipeline_file"`
}

// Load 读取 YAML 配置；path 为空或文件不存在时返回默认配置。
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:         ":8080",
		CacheTTL:     300,
		CollabWeight: 0.7,
		Seed:         42,
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
