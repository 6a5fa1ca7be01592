package hcl_adapter

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// EnvFunc returns the value of an environment variable, or "" when unset.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":  stdlib.UpperFunc,
		"lower":  stdlib.LowerFunc,
		"concat": stdlib.ConcatFunc,
		"format": stdlib.FormatFunc,
		"join":   stdlib.JoinFunc,
		"env":    EnvFunc,
	}
}

// conventionEvalContext is used while decoding the convention block itself.
func conventionEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: functions()}
}

// moduleEvalContext exposes the effective convention as `convention.*`.
func moduleEvalContext(conv config.Settings) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"convention": settingsValue(conv),
		},
		Functions: functions(),
	}
}

func settingsValue(s config.Settings) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"language_version": cty.NumberIntVal(int64(s.LanguageVersion)),
		"preview_features": cty.BoolVal(s.PreviewFeatures),
		"preview_flag":     cty.StringVal(s.PreviewFlag),
		"source_dirs":      stringList(s.SourceDirs),
		"compiler":         stringList(s.Compiler),
		"compiler_args":    stringList(s.CompilerArgs),
		"test_framework":   cty.StringVal(s.TestFramework),
		"test_command":     stringList(s.TestCommand),
		"test_args":        stringList(s.TestArgs),
		"run_args":         stringList(s.RunArgs),
	})
}

func stringList(v []string) cty.Value {
	if len(v) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(v))
	for i, s := range v {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
