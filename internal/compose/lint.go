package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// Lint validates a manifest before it is handed to the orchestrator. The
// orchestrator would reject most of these too, but only after pulling images;
// catching them here keeps failures cheap and the messages in our own terms.
func Lint(m *Manifest) error {
	if len(m.Services) == 0 {
		return fmt.Errorf("manifest declares no services")
	}

	hostPorts := map[string]string{}
	for name, svc := range m.Services {
		if svc.Image == "" {
			return fmt.Errorf("service %s: image is required", name)
		}
		for dep := range svc.DependsOn {
			if _, ok := m.Services[dep]; !ok {
				return fmt.Errorf("service %s: depends_on %s, which is not defined", name, dep)
			}
			if dep == name {
				return fmt.Errorf("service %s: depends on itself", name)
			}
		}
		for _, p := range svc.Ports {
			host, _, err := splitPort(p)
			if err != nil {
				return fmt.Errorf("service %s: %w", name, err)
			}
			if other, taken := hostPorts[host]; taken {
				return fmt.Errorf("service %s: host port %s already published by %s", name, host, other)
			}
			hostPorts[host] = name
		}
		for _, v := range svc.Volumes {
			vol, path, ok := strings.Cut(v, ":")
			if !ok || vol == "" || path == "" {
				return fmt.Errorf("service %s: malformed volume mount %q", name, v)
			}
			if !strings.HasPrefix(vol, "/") && !strings.HasPrefix(vol, ".") {
				if _, registered := m.Volumes[vol]; !registered {
					return fmt.Errorf("service %s: named volume %s is not registered", name, vol)
				}
			}
		}
		for k, val := range svc.Environment {
			if val == "" {
				return fmt.Errorf("service %s: environment %s is empty", name, k)
			}
		}
	}
	return nil
}

func splitPort(mapping string) (host, container string, err error) {
	host, container, ok := strings.Cut(mapping, ":")
	if !ok {
		return "", "", fmt.Errorf("malformed port mapping %q", mapping)
	}
	for _, part := range []string{host, container} {
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 1 || n > 65535 {
			return "", "", fmt.Errorf("malformed port mapping %q", mapping)
		}
	}
	return host, container, nil
}
