package logschema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema 定义每个日志事件所需的关键字段，便于集中校验。
type Schema struct {
	Event    string
	Required []string
}

var schemas = map[string]Schema{
	"arb_executed": {
		Event:    "arb_executed",
		Required: []string{"buy_pair", "sell_pair", "fx_buy", "fx_sell", "profit_pct", "nominals", "net_profit_pesos", "ars", "usd"},
	},
	"arb_opportunity_skipped": {
		Event:    "arb_opportunity_skipped",
		Required: []string{"buy_pair", "sell_pair", "profit_pct", "reason"},
	},
	"trade_leg": {
		Event:    "trade_leg",
		Required: []string{"timestamp", "security", "currency", "price", "volume", "pxq"},
	},
	"fix_submission_failed": {
		Event:    "fix_submission_failed",
		Required: []string{"security", "side", "price", "quantity"},
	},
}

// Known 返回所有事件名，便于外部生成文档。
func Known() []string {
	names := make([]string, 0, len(schemas))
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate 检查日志字段是否包含 schema 中要求的 key。
func Validate(event string, fields map[string]interface{}) error {
	s, ok := schemas[event]
	if !ok {
		return nil
	}
	var missing []string
	for _, key := range s.Required {
		if _, exists := fields[key]; !exists {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ","))
	}
	return nil
}
