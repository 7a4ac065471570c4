package mcpserver

// Parameter structs for the published tool schemas. Optional fields are
// pointers so an absent value reaches the dispatcher as absent and picks up
// the catalog default.

type listDirectoryParams struct {
	Path *string `json:"path,omitempty" jsonschema:"Directory path relative to FS_ROOT. Defaults to the root."`
}

type readFileParams struct {
	Path     string  `json:"path" jsonschema:"File path relative to FS_ROOT."`
	Encoding *string `json:"encoding,omitempty" jsonschema:"Text encoding name, or auto to detect. Defaults to utf-8."`
}

type writeFileParams struct {
	Path     string  `json:"path" jsonschema:"File path relative to FS_ROOT."`
	Content  string  `json:"content" jsonschema:"Text to write. Appended when the file already exists."`
	Encoding *string `json:"encoding,omitempty" jsonschema:"Text encoding name. Defaults to utf-8."`
}

type createDirectoryParams struct {
	Path    string `json:"path" jsonschema:"Directory path relative to FS_ROOT."`
	ExistOK *bool  `json:"exist_ok,omitempty" jsonschema:"Succeed when the directory already exists. Defaults to true."`
}

type deleteFileParams struct {
	Path      string `json:"path" jsonschema:"File or directory path relative to FS_ROOT."`
	Recursive *bool  `json:"recursive,omitempty" jsonschema:"Remove a non-empty directory tree."`
}

type searchFilesParams struct {
	Path         *string `json:"path,omitempty" jsonschema:"Directory to search. Defaults to the root."`
	NameContains *string `json:"name_contains,omitempty" jsonschema:"Case-insensitive substring of the file name."`
	Pattern      *string `json:"pattern,omitempty" jsonschema:"Glob on the root-relative path, e.g. **/*.go"`
	Gitignore    *bool   `json:"gitignore,omitempty" jsonschema:"Skip entries ignored by the directory's .gitignore."`
}

type searchInFilesParams struct {
	Path      *string `json:"path,omitempty" jsonschema:"Directory to search. Defaults to the root."`
	Text      *string `json:"text,omitempty" jsonschema:"Literal text to find."`
	Encoding  *string `json:"encoding,omitempty" jsonschema:"Text encoding of the searched files. Defaults to utf-8."`
	Pattern   *string `json:"pattern,omitempty" jsonschema:"Glob on the root-relative path, e.g. **/*.md"`
	Gitignore *bool   `json:"gitignore,omitempty" jsonschema:"Skip entries ignored by the directory's .gitignore."`
}

type getFileInfoParams struct {
	Path     string  `json:"path" jsonschema:"File or directory path relative to FS_ROOT."`
	Checksum *string `json:"checksum,omitempty" jsonschema:"Checksum algorithm for regular files: sha256 or blake2b."`
}

type transferParams struct {
	Src       string `json:"src" jsonschema:"Source path relative to FS_ROOT."`
	Dst       string `json:"dst" jsonschema:"Destination path. An existing directory receives the source by name."`
	Overwrite *bool  `json:"overwrite,omitempty" jsonschema:"Replace an existing destination. Defaults to true."`
}

type commandParams struct {
	Prompt string `json:"prompt" jsonschema:"Natural-language filesystem request, e.g. list files in docs"`
}
