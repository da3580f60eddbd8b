package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the optional TOML config file.
//
//	port = "8080"
//	database_url = "sqlite://./data/docstore.sqlite"
//
//	[agent]
//	url = "https://agent.example.com/v1/chat"
//	timeout = "30s"
//	context_max_docs = 5
type fileConfig struct {
	Port             string `toml:"port"`
	Env              string `toml:"env"`
	DatabaseURL      string `toml:"database_url"`
	ObjectStore      string `toml:"object_store"`
	LocalStoreDir    string `toml:"local_store_dir"`
	AWSRegion        string `toml:"aws_region"`
	S3Bucket         string `toml:"s3_bucket"`
	S3Prefix         string `toml:"s3_prefix"`
	PublicBaseURL    string `toml:"public_base_url"`
	CORSAllowOrigins string `toml:"cors_allow_origins"`
	ExtractPDF       *bool  `toml:"extract_pdf"`
	Agent            struct {
		URL            string `toml:"url"`
		Auth           string `toml:"auth"`
		Timeout        string `toml:"timeout"`
		ContextMaxDocs int    `toml:"context_max_docs"`
	} `toml:"agent"`
	ChatRateLimit struct {
		RPS   float64 `toml:"rps"`
		Burst int     `toml:"burst"`
	} `toml:"chat_rate_limit"`
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fileConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fc, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
	}
	return fc, nil
}
