package strategy

import (
	"fmt"
	"sort"
)

// Pair 表示同一债券的比索/美元双证券（如 AL30 与 AL30D）。
type Pair struct {
	Name           string
	PesoSecurity   string
	DollarSecurity string
}

// Registry 保存参与套利的债券对集合，顺序固定（按名称排序），
// 以保证探测遍历与平局裁决的确定性。
type Registry struct {
	pairs []Pair
}

// NewRegistry 构建注册表；至少需要两个债券对才能做跨对套利。
func NewRegistry(pairs []Pair) (*Registry, error) {
	if len(pairs) < 2 {
		return nil, fmt.Errorf("registry requires at least 2 pairs, got %d", len(pairs))
	}
	seen := make(map[string]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Name == "" || p.PesoSecurity == "" || p.DollarSecurity == "" {
			return nil, fmt.Errorf("pair %q: name and both securities are required", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate pair name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return &Registry{pairs: out}, nil
}

// Pairs 返回全部债券对，按名称排序。
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Securities 返回注册表涉及的全部证券标识。
func (r *Registry) Securities() []string {
	out := make([]string, 0, len(r.pairs)*2)
	for _, p := range r.pairs {
		out = append(out, p.PesoSecurity, p.DollarSecurity)
	}
	return out
}
