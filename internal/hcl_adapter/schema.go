package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Block bodies stay undecoded until the convention is known.
type fileRoot struct {
	Conventions []*conventionBlock `hcl:"convention,block"`
	Modules     []*moduleBlock     `hcl:"module,block"`
}

type conventionBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type moduleBlock struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// settingsBody is shared by the convention block and a module's overrides
// block. Pointers distinguish an omitted attribute from a zero value.
type settingsBody struct {
	LanguageVersion *int      `hcl:"language_version,optional"`
	PreviewFeatures *bool     `hcl:"preview_features,optional"`
	PreviewFlag     *string   `hcl:"preview_flag,optional"`
	SourceDirs      *[]string `hcl:"source_dirs,optional"`
	Compiler        *[]string `hcl:"compiler,optional"`
	CompilerArgs    *[]string `hcl:"compiler_args,optional"`
	TestFramework   *string   `hcl:"test_framework,optional"`
	TestCommand     *[]string `hcl:"test_command,optional"`
	TestArgs        *[]string `hcl:"test_args,optional"`
	RunArgs         *[]string `hcl:"run_args,optional"`
}

type moduleBody struct {
	SourceDirs *[]string     `hcl:"source_dirs,optional"`
	DependsOn  []string      `hcl:"depends_on,optional"`
	Tests      *bool         `hcl:"tests,optional"`
	Run        *runBlock     `hcl:"run,block"`
	Overrides  *settingsBody `hcl:"overrides,block"`
}

type runBlock struct {
	EntryPoint string   `hcl:"entry_point"`
	Args       []string `hcl:"args,optional"`
}
