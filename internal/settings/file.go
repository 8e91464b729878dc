package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

var ErrInvalidSettings = errors.New("invalid settings")

//go:embed schema.json
var schemaDocument []byte

// File is a Provider reading the settings from a JSON or dotenv file.
// The file is re-read on every call; values missing from the file fall
// back to the defaults.
type File struct {
	path     string
	defaults Settings
	schema   *gojsonschema.Schema

	log *zap.Logger
}

var _ Provider = (*File)(nil)

func NewFile(path string, defaults Settings, log *zap.Logger) (*File, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDocument))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings schema: %w", err)
	}

	return &File{
		path:     path,
		defaults: defaults,
		schema:   schema,
		log:      log.Named("settings"),
	}, nil
}

func (f *File) Settings() (Settings, error) {
	var s Settings

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(f.defaults), "."), nil); err != nil {
		return s, fmt.Errorf("failed to load default settings: %w", err)
	}

	values, err := f.read()
	if err != nil {
		f.log.Debug("failed to read settings file", zap.String("file", f.path), zap.Error(err))
		return s, err
	}

	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return s, fmt.Errorf("failed to merge settings: %w", err)
	}

	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "conf"}); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}

	return s, nil
}

func (f *File) read() (map[string]any, error) {
	fk := koanf.New(".")

	if isDotenv(f.path) {
		if err := fk.Load(file.Provider(f.path), dotenv.Parser()); err != nil {
			return nil, err
		}

		// dotenv keys are conventionally upper case
		values := make(map[string]any, len(fk.Keys()))
		for key, value := range fk.All() {
			values[strings.ToLower(key)] = value
		}

		return values, nil
	}

	if err := fk.Load(file.Provider(f.path), json.Parser()); err != nil {
		return nil, err
	}

	if err := f.validate(fk.Raw()); err != nil {
		return nil, err
	}

	return fk.All(), nil
}

func (f *File) validate(doc map[string]any) error {
	result, err := f.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate settings: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
}

func isDotenv(path string) bool {
	base := filepath.Base(path)
	return filepath.Ext(base) == ".env" || base == ".env"
}

func defaultsMap(s Settings) map[string]any {
	return map[string]any{
		"enable_service":  s.EnableService,
		"executable_path": s.ExecutablePath,
		"config_path":     s.ConfigPath,
	}
}
