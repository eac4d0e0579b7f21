// Package store implements the configuration store backed by memory and a YAML file.
package store

import (
	"io/ioutil"
	"os"
	"sync"

	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/gauge.go/pkg/device"
)

// MemStore keeps configuration values in memory and persists them on Save.
type MemStore struct {
	// Path is the YAML file used by Save and Load. Empty disables persistence.
	Path string

	lock   sync.RWMutex
	values map[device.Key]interface{}
}

// New creates a MemStore filled with defaults.
func New(path string) *MemStore {
	s := &MemStore{Path: path}
	s.RestoreDefaults()
	return s
}

// Load creates a MemStore and overlays values saved at path.
// A missing file is not an error.
func Load(path string) (*MemStore, error) {
	s := New(path)
	content, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	var saved map[string]interface{}
	if err := yaml.Unmarshal(content, &saved); err != nil {
		return nil, err
	}
	s.apply(saved)
	return s, nil
}

func (s *MemStore) apply(saved map[string]interface{}) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for p := device.Param(0); p < device.NumParams; p++ {
		spec := device.Spec(p)
		for i := 0; i < spec.Count; i++ {
			key := device.Key{Param: p, Index: uint8(i)}
			raw, ok := saved[key.String()]
			if !ok {
				continue
			}
			if v, ok := convert(spec, raw); ok {
				s.values[key] = v
			} else {
				glog.Warningf("config %s: ignored value %v", key, raw)
			}
		}
	}
}

func convert(spec *device.ParamSpec, raw interface{}) (interface{}, bool) {
	switch spec.Kind {
	case device.KindBool:
		v, ok := raw.(bool)
		return v, ok
	case device.KindString:
		v, ok := raw.(string)
		return v, ok && len(v) <= spec.MaxLen
	case device.KindUint32:
		if v, ok := raw.(int); ok && v >= 0 && spec.InRange(float64(v)) {
			return uint32(v), true
		}
	case device.KindFloat32:
		switch v := raw.(type) {
		case float64:
			return float32(v), spec.InRange(v)
		case int:
			return float32(v), spec.InRange(float64(v))
		}
	}
	return nil, false
}

// RestoreDefaults implements device.Config.
func (s *MemStore) RestoreDefaults() bool {
	values := make(map[device.Key]interface{})
	for p := device.Param(0); p < device.NumParams; p++ {
		spec := device.Spec(p)
		for i := 0; i < spec.Count; i++ {
			key := device.Key{Param: p, Index: uint8(i)}
			switch spec.Kind {
			case device.KindBool:
				values[key] = spec.Bool
			case device.KindUint32:
				values[key] = spec.Uint32
			case device.KindFloat32:
				values[key] = spec.Float32
			case device.KindString:
				values[key] = spec.String
			}
		}
	}
	s.lock.Lock()
	s.values = values
	s.lock.Unlock()
	return true
}

// Save implements device.Config.
func (s *MemStore) Save() bool {
	if s.Path == "" {
		return true
	}
	out := make(map[string]interface{})
	s.lock.RLock()
	for key, v := range s.values {
		out[key.String()] = v
	}
	s.lock.RUnlock()
	content, err := yaml.Marshal(out)
	if err != nil {
		glog.Errorf("config marshal error: %v", err)
		return false
	}
	if err := ioutil.WriteFile(s.Path, content, 0644); err != nil {
		glog.Errorf("config save %s error: %v", s.Path, err)
		return false
	}
	glog.V(2).Infof("config saved to %s", s.Path)
	return true
}

func (s *MemStore) get(k device.Key, kind device.Kind) (interface{}, bool) {
	if k.Param < 0 || k.Param >= device.NumParams {
		return nil, false
	}
	spec := device.Spec(k.Param)
	if spec.Kind != kind || !spec.Valid(k.Index) {
		return nil, false
	}
	s.lock.RLock()
	v, ok := s.values[k]
	s.lock.RUnlock()
	return v, ok
}

func (s *MemStore) set(k device.Key, kind device.Kind, v interface{}, check func(*device.ParamSpec) bool) bool {
	if k.Param < 0 || k.Param >= device.NumParams {
		return false
	}
	spec := device.Spec(k.Param)
	if spec.Kind != kind || !spec.Valid(k.Index) || !check(spec) {
		return false
	}
	s.lock.Lock()
	s.values[k] = v
	s.lock.Unlock()
	return true
}

// Uint32 implements device.Config.
func (s *MemStore) Uint32(k device.Key) uint32 {
	v, _ := s.get(k, device.KindUint32)
	n, _ := v.(uint32)
	return n
}

// SetUint32 implements device.Config.
func (s *MemStore) SetUint32(k device.Key, v uint32) bool {
	return s.set(k, device.KindUint32, v, func(spec *device.ParamSpec) bool {
		return spec.InRange(float64(v))
	})
}

// Float32 implements device.Config.
func (s *MemStore) Float32(k device.Key) float32 {
	v, _ := s.get(k, device.KindFloat32)
	f, _ := v.(float32)
	return f
}

// SetFloat32 implements device.Config.
func (s *MemStore) SetFloat32(k device.Key, v float32) bool {
	return s.set(k, device.KindFloat32, v, func(spec *device.ParamSpec) bool {
		return spec.InRange(float64(v))
	})
}

// Bool implements device.Config.
func (s *MemStore) Bool(k device.Key) bool {
	v, _ := s.get(k, device.KindBool)
	b, _ := v.(bool)
	return b
}

// SetBool implements device.Config.
func (s *MemStore) SetBool(k device.Key, v bool) bool {
	return s.set(k, device.KindBool, v, func(*device.ParamSpec) bool { return true })
}

// String implements device.Config.
func (s *MemStore) String(k device.Key) string {
	v, _ := s.get(k, device.KindString)
	str, _ := v.(string)
	return str
}

// SetString implements device.Config.
func (s *MemStore) SetString(k device.Key, v string) bool {
	return s.set(k, device.KindString, v, func(spec *device.ParamSpec) bool {
		return len(v) <= spec.MaxLen
	})
}
