// Package config loads the cluster's static configuration contract
// (spec.md §6): core frequencies, core types, process/tile topology, and
// the named feature toggles. Grounded on the teacher's config package
// (a narrowly-scoped typed config object) generalized to a YAML-backed
// path-style store, since spec.md §1 scopes out any other backend.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/tilesim/fatal"
	"gopkg.in/yaml.v3"
)

// Store is a YAML document addressed by dotted paths ("processes.0.cores"),
// with typed getters over the named queries of spec.md §6. It has no
// mutation API: the cluster is configured once, at startup.
type Store struct {
	raw map[string]interface{}
}

// Load reads and parses the YAML document at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a Store from an in-memory YAML document, used by tests
// and by callers that already have the bytes (e.g. embedded defaults).
func Parse(data []byte) (*Store, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &Store{raw: raw}, nil
}

// lookup walks a dotted path through nested maps and slices. A numeric
// path segment indexes into a slice, or matches an integer map key (YAML
// mappings such as `processes: {0: ...}` decode with non-string keys).
func (s *Store) lookup(path string) (interface{}, bool) {
	var cur interface{} = s.raw
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]interface{}:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case map[interface{}]interface{}:
			next, ok := v[seg]
			if !ok {
				idx, err := strconv.Atoi(seg)
				if err != nil {
					return nil, false
				}
				if next, ok = v[idx]; !ok {
					return nil, false
				}
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string at path, failing fast per spec.md §7 if
// it is absent or not a string.
func (s *Store) GetString(path string) string {
	v, ok := s.lookup(path)
	if !ok {
		fatal.Fail("config: missing required key %q", path)
	}
	str, ok := v.(string)
	if !ok {
		fatal.Fail("config: key %q is not a string (got %T)", path, v)
	}
	return str
}

// GetStringOrDefault returns the string at path, or def if the key is
// absent.
func (s *Store) GetStringOrDefault(path, def string) string {
	v, ok := s.lookup(path)
	if !ok {
		return def
	}
	str, ok := v.(string)
	if !ok {
		fatal.Fail("config: key %q is not a string (got %T)", path, v)
	}
	return str
}

// GetInt returns the int at path, failing fast if absent or not numeric.
func (s *Store) GetInt(path string) int {
	v, ok := s.lookup(path)
	if !ok {
		fatal.Fail("config: missing required key %q", path)
	}
	return asInt(path, v)
}

// GetIntOrDefault returns the int at path, or def if the key is absent.
func (s *Store) GetIntOrDefault(path string, def int) int {
	v, ok := s.lookup(path)
	if !ok {
		return def
	}
	return asInt(path, v)
}

// GetFloat returns the float64 at path, failing fast if absent or not
// numeric.
func (s *Store) GetFloat(path string) float64 {
	v, ok := s.lookup(path)
	if !ok {
		fatal.Fail("config: missing required key %q", path)
	}
	return asFloat(path, v)
}

// GetFloatOrDefault returns the float64 at path, or def if the key is
// absent.
func (s *Store) GetFloatOrDefault(path string, def float64) float64 {
	v, ok := s.lookup(path)
	if !ok {
		return def
	}
	return asFloat(path, v)
}

// GetBool returns the bool at path, failing fast if absent or not a
// bool.
func (s *Store) GetBool(path string) bool {
	v, ok := s.lookup(path)
	if !ok {
		fatal.Fail("config: missing required key %q", path)
	}
	b, ok := v.(bool)
	if !ok {
		fatal.Fail("config: key %q is not a bool (got %T)", path, v)
	}
	return b
}

// GetBoolOrDefault returns the bool at path, or def if the key is
// absent.
func (s *Store) GetBoolOrDefault(path string, def bool) bool {
	v, ok := s.lookup(path)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		fatal.Fail("config: key %q is not a bool (got %T)", path, v)
	}
	return b
}

func asInt(path string, v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		fatal.Fail("config: key %q is not numeric (got %T)", path, v)
		return 0
	}
}

func asFloat(path string, v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		fatal.Fail("config: key %q is not numeric (got %T)", path, v)
		return 0
	}
}

// CoreFrequency returns the clock frequency, in cycles per unit time, of
// core id, per spec.md §6's getCoreFrequency.
func (s *Store) CoreFrequency(core int) float64 {
	if v, ok := s.lookup("cores." + strconv.Itoa(core) + ".frequency"); ok {
		return asFloat("cores.*.frequency", v)
	}
	return s.GetFloatOrDefault("default_core_frequency", 1.0)
}

// CoreType returns the configured model name ("simple", "iocoom",
// "magic") for core id's main model, per spec.md §6's getCoreType.
func (s *Store) CoreType(core int) string {
	if v, ok := s.lookup("cores." + strconv.Itoa(core) + ".model"); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return s.GetStringOrDefault("default_core_model", "simple")
}

// PepCoreType returns the configured pep co-processor model name for
// core id, defaulting to "none" when the core has no pep model, per
// spec.md §6's getPepCoreType.
func (s *Store) PepCoreType(core int) string {
	if v, ok := s.lookup("cores." + strconv.Itoa(core) + ".pep_model"); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return s.GetStringOrDefault("default_pep_core_model", "none")
}

// MCPCoreNum returns the id of the distinguished core that hosts the
// MCP, per spec.md §6's getMCPCoreNum.
func (s *Store) MCPCoreNum() int {
	return s.GetInt("mcp_core_num")
}

// TotalCores returns the cluster-wide core count, per spec.md §6's
// getTotalCores.
func (s *Store) TotalCores() int {
	return s.GetInt("total_cores")
}

// ProcessCount returns the number of host processes, per spec.md §6's
// getProcessCount.
func (s *Store) ProcessCount() int {
	return s.GetInt("process_count")
}

// CoreListForProcess returns the ids of every core hosted by process
// proc, per spec.md §6's getCoreListForProcess. The list's first entry
// is that process's representative core for broadcast fan-out.
func (s *Store) CoreListForProcess(proc int) []int {
	v, ok := s.lookup("processes." + strconv.Itoa(proc) + ".cores")
	if !ok {
		fatal.Fail("config: no core list for process %d", proc)
	}
	list, ok := v.([]interface{})
	if !ok {
		fatal.Fail("config: processes.%d.cores is not a list", proc)
	}

	cores := make([]int, len(list))
	for i, item := range list {
		cores[i] = asInt("processes.*.cores[*]", item)
	}
	return cores
}

// ApplicationCores returns the total count of cores running application
// threads, excluding the MCP's own core, per spec.md §6's
// getApplicationCores (the capacity CarbonInitModels sizes its barrier
// to).
func (s *Store) ApplicationCores() int {
	if v, ok := s.lookup("application_cores"); ok {
		return asInt("application_cores", v)
	}
	return s.TotalCores() - 1
}

// CurrentProcessNum returns this host process's own process id, per
// spec.md §6's getCurrentProcessNum.
func (s *Store) CurrentProcessNum() int {
	return s.GetInt("current_process_num")
}

// EnablePerformanceModeling reports whether performance modeling is on
// cluster-wide, per spec.md §6's getEnablePerformanceModeling.
func (s *Store) EnablePerformanceModeling() bool {
	return s.GetBoolOrDefault("enable_performance_modeling", true)
}
