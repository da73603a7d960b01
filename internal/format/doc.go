// Package format detects and parses the supported configuration file
// formats.
//
// Detect(path) dispatches on the file extension, case-insensitively:
// .yaml/.yml/.json select the markup mode, everything else the expression
// mode. Parse(path, data) applies the detected mode:
//   - markup — gopkg.in/yaml.v3, which accepts JSON as valid YAML
//   - expression — expr-lang evaluated against an empty environment, a
//     closed declarative grammar of map literals, scalars and arithmetic;
//     "exports = {...}" and "module.exports = {...}" evaluate the
//     right-hand side of the assignment
//
// Either mode returns a map[string]any or an error; a non-mapping
// expression result is an error.
package format
