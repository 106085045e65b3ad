package compose

import (
	"fmt"

	"github.com/unistate/devenv/internal/config"
)

// Canonical names inside the environment. The client connects to the
// database by its service name over the compose network.
const (
	ServiceDB     = "db"
	ServicePSQL   = "psql"
	VolumeData    = "pgdata"
	DataMountPath = "/var/lib/postgresql/data"
	PostgresPort  = 5432
)

// Default builds the environment manifest from the loaded configuration.
// Both service definitions draw on the same credential triple, so the
// client's connection target always matches what the server initialized.
func Default(cfg *config.Config) *Manifest {
	creds := cfg.Credentials
	return &Manifest{
		Version: "3.8",
		Services: map[string]Service{
			ServiceDB: {
				Image: cfg.PostgresImage,
				Environment: map[string]string{
					"POSTGRES_DB":       creds.Database,
					"POSTGRES_USER":     creds.User,
					"POSTGRES_PASSWORD": creds.Password,
				},
				Volumes: []string{fmt.Sprintf("%s:%s", VolumeData, DataMountPath)},
				Ports:   []string{fmt.Sprintf("%d:%d", cfg.Port, PostgresPort)},
				Healthcheck: &Healthcheck{
					Test:     []string{"CMD-SHELL", fmt.Sprintf("pg_isready -U %s -d %s", creds.User, creds.Database)},
					Interval: "2s",
					Timeout:  "3s",
					Retries:  15,
				},
			},
			ServicePSQL: {
				Image:      cfg.PostgresImage,
				Entrypoint: []string{"psql"},
				Command:    []string{"-h", ServiceDB, "-U", creds.User, creds.Database},
				Environment: map[string]string{
					"PGPASSWORD": creds.Password,
				},
				StdinOpen: true,
				TTY:       true,
				DependsOn: DependsOn{
					ServiceDB: {Condition: ConditionHealthy},
				},
			},
		},
		Volumes: map[string]struct{}{
			VolumeData: {},
		},
	}
}
