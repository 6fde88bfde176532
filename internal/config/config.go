package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Listen   string   `koanf:"listen"`
	Cors     Cors     `koanf:"cors"`
	Auth     Auth     `koanf:"auth"`
	Database Database `koanf:"db"`
	Storage  Storage  `koanf:"storage"`
}

type Cors struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

// Auth configures the OpenID Connect identity provider (e.g. a Keycloak
// realm) the service delegates authentication to.
type Auth struct {
	IssuerUrl    string `koanf:"issuerurl"`
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	// PublicKey is the PEM encoded RSA public key of the realm, used to
	// verify bearer token signatures. When empty, token signatures are not
	// verified and the X-User-Id header is trusted (development mode).
	PublicKey string `koanf:"publickey"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Storage struct {
	PhotoDir string `koanf:"photodir"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:   "http://localhost:3000",
		Listen: ":8181",
		Cors: Cors{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: Database{
			Path: "kudos.db",
		},
		Storage: Storage{
			PhotoDir: "storage/user_photos",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "KUDOS_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "KUDOS_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
