package docsift

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/docsift/vector"
)

var (
	ErrInvalidPDF           = errors.New("invalid PDF file")
	ErrNoFiles              = errors.New("no files uploaded")
	ErrDuplicateFilename    = errors.New("duplicate filename in upload")
	ErrDocumentRejected     = errors.New("failed to add documents")
	ErrInvalidMetadataQuery = errors.New("failed to generate valid metadata query")
	ErrEmptyQuery           = errors.New("query text is empty")
	ErrInvalidNLPResponse   = errors.New("invalid nlp response")
	ErrUnsupportedProvider  = errors.New("unsupported provider")
)

type Config struct {
	CORS   CORSConfig    `yaml:"cors"`
	NLP    NLPConfig     `yaml:"nlp"`
	LLM    LLMConfig     `yaml:"llm"`
	Vector vector.Config `yaml:"vector"`
}

// Normalize fills unset fields with their defaults.
func (cfg *Config) Normalize() {
	if cfg.CORS.AllowOrigin == "" {
		cfg.CORS.AllowOrigin = "http://localhost:3000"
	}

	if cfg.NLP.Provider == "" {
		cfg.NLP.Provider = NLPProviderCoreNLP
	}

	if cfg.NLP.URL == "" {
		cfg.NLP.URL = "http://localhost:9000"
	}

	if cfg.NLP.Annotators == "" {
		cfg.NLP.Annotators = "tokenize,ssplit,pos,lemma,ner"
	}

	if cfg.NLP.Timeout == 0 {
		cfg.NLP.Timeout = Duration(30 * time.Second)
	}

	if cfg.NLP.Retries == nil {
		retries := 2
		cfg.NLP.Retries = &retries
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}

	if cfg.LLM.EmbeddingModel == "" {
		cfg.LLM.EmbeddingModel = "text-embedding-3-small"
	}

	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = Duration(60 * time.Second)
	}

	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "documents"
	}
}

type CORSConfig struct {
	AllowOrigin string `yaml:"allowOrigin"`
}

type NLPProvider string

const (
	NLPProviderCoreNLP NLPProvider = "corenlp"
	NLPProviderOpenAI  NLPProvider = "openai"
)

type NLPConfig struct {
	Provider   NLPProvider `yaml:"provider"`
	URL        string      `yaml:"url"`
	Annotators string      `yaml:"annotators"`
	Timeout    Duration    `yaml:"timeout"`
	Retries    *int        `yaml:"retries"`
}

type LLMConfig struct {
	BaseURL        string   `yaml:"baseURL"`
	APIKey         string   `yaml:"-"`
	Model          string   `yaml:"model"`
	EmbeddingModel string   `yaml:"embeddingModel"`
	Timeout        Duration `yaml:"timeout"`
}

type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	str := d.Duration().String()
	return json.Marshal(str)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration().String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

// LoadConfig reads config.yaml under path, falling back to defaults when the
// file is absent. Secrets come from the environment, optionally seeded by a
// .env file in path.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load(filepath.Join(path, ".env"))

	var cfg Config

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	switch {
	case err == nil:
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, err
		}

	case !errors.Is(err, fs.ErrNotExist):
		return cfg, err
	}

	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}

	if cfg.Vector.Persistent && cfg.Vector.Path == "" {
		cfg.Vector.Path = filepath.Join(path, "vectors")
	}

	cfg.Normalize()
	return cfg, nil
}
