package davfs

import "maps"

// Properties is the free-form name to value map attached to a session.
// Values are neither validated nor interpreted.
type Properties struct {
	values map[string]string
}

func newProperties(seed map[string]string) Properties {
	values := make(map[string]string, len(seed))
	maps.Copy(values, seed)
	return Properties{values: values}
}

// SetProperty stores value under name, replacing any previous value.
func (p *Properties) SetProperty(name, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.values[name] = value
}

// GetProperty returns the value stored under name and whether it exists.
func (p *Properties) GetProperty(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}
