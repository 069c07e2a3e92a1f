package router

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// =============================================================================
// Model Validation
// =============================================================================

// ValidatorOptions controls which problems are fatal.
type ValidatorOptions struct {
	// Strict makes route files that fail to parse an error instead of a
	// warning.
	Strict bool

	// RejectStaticCapture reports a static segment and a capture segment at
	// the same position as a conflict. Without it chi matches the static
	// segment first.
	RejectStaticCapture bool
}

// Validator checks a Model for conflicts and errors.
type Validator struct {
	model    *Model
	opts     ValidatorOptions
	errors   []ValidationError
	warnings []ValidationError
}

// ValidationError represents a route validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the source files involved
	Files []string

	// Path is the conflicting URL pattern
	Path string

	// Details contains additional error-specific information
	Details string

	// Line and Column locate the problem in Files[0] when known.
	Line   int
	Column int
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorParseFailure indicates a route file that is not valid Go.
	ErrorParseFailure ValidationErrorType = "PARSE_FAILURE"

	// ErrorInvalidFileName indicates a route file the go tool would refuse
	// to build, such as [id].go.
	ErrorInvalidFileName ValidationErrorType = "INVALID_FILE_NAME"

	// ErrorDuplicateLayout indicates two layouts registered for one directory.
	ErrorDuplicateLayout ValidationErrorType = "DUPLICATE_LAYOUT"

	// ErrorDuplicateRoute indicates two files serving the same method on the
	// same pattern. Example: users.go and users/index.go both define GET.
	ErrorDuplicateRoute ValidationErrorType = "DUPLICATE_ROUTE"

	// ErrorHandlerAmbiguity indicates both bare (GET) and prefixed (UsersGET)
	// handlers exist for one verb in one file.
	ErrorHandlerAmbiguity ValidationErrorType = "HANDLER_AMBIGUITY"

	// ErrorDuplicateHandler indicates one function name declared by two
	// files of the same package.
	ErrorDuplicateHandler ValidationErrorType = "DUPLICATE_HANDLER"

	// ErrorMissingLayoutFunc indicates a layout.go without a Layout function.
	ErrorMissingLayoutFunc ValidationErrorType = "MISSING_LAYOUT_FUNC"

	// ErrorRouteConflict indicates two patterns that compete for the same
	// segment: captures with different names, or in strict mode a static
	// segment next to a capture.
	ErrorRouteConflict ValidationErrorType = "ROUTE_CONFLICT"
)

// Code returns the error code used by the CLI.
func (t ValidationErrorType) Code() string {
	switch t {
	case ErrorParseFailure:
		return "E202"
	case ErrorInvalidFileName:
		return "E203"
	case ErrorDuplicateLayout:
		return "E301"
	case ErrorDuplicateRoute:
		return "E302"
	case ErrorHandlerAmbiguity:
		return "E303"
	case ErrorDuplicateHandler:
		return "E304"
	case ErrorMissingLayoutFunc:
		return "E305"
	case ErrorRouteConflict:
		return "E306"
	default:
		return "E300"
	}
}

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// NewValidator creates a validator for model.
func NewValidator(model *Model, opts ValidatorOptions) *Validator {
	return &Validator{model: model, opts: opts}
}

// Validate checks the model.
// Returns nil if it is valid, or a MultiValidationError with all errors.
func (v *Validator) Validate() error {
	v.errors = nil
	v.warnings = nil

	v.collectProblems()
	v.validateDuplicateRoutes()
	v.validateDuplicateHandlers()
	v.validateConflicts()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// Warnings returns the problems that did not fail validation.
func (v *Validator) Warnings() []ValidationError {
	return v.warnings
}

func (v *Validator) collectProblems() {
	for _, p := range v.model.Problems {
		if p.Type == ErrorParseFailure && !v.opts.Strict {
			v.warnings = append(v.warnings, p)
			continue
		}
		v.errors = append(v.errors, p)
	}
}

// validateDuplicateRoutes checks for one method served by two files at the
// same pattern. Different methods at one pattern are merged.
func (v *Validator) validateDuplicateRoutes() {
	byPath := make(map[string][]*RouteInfo)
	var order []string
	for _, route := range v.model.ActiveRoutes() {
		if _, seen := byPath[route.URLPath]; !seen {
			order = append(order, route.URLPath)
		}
		byPath[route.URLPath] = append(byPath[route.URLPath], route)
	}

	for _, pattern := range order {
		routes := byPath[pattern]
		if len(routes) <= 1 {
			continue
		}

		for _, m := range AllMethods {
			var files []string
			for _, r := range routes {
				if r.Methods.Has(m) {
					files = append(files, r.RelPath)
				}
			}
			if len(files) <= 1 {
				continue
			}

			v.errors = append(v.errors, ValidationError{
				Type:    ErrorDuplicateRoute,
				Message: fmt.Sprintf("Duplicate route detected at %s %s", m.HTTP(), pattern),
				Path:    pattern,
				Files:   files,
				Details: fmt.Sprintf("Files: %s", strings.Join(files, ", ")),
			})
		}
	}
}

// validateDuplicateHandlers checks for an exported function declared by two
// files of one package, which the Go compiler would reject.
func (v *Validator) validateDuplicateHandlers() {
	declared := make(map[*DirNode]mapset.Set[string])
	owner := make(map[*DirNode]map[string]string)

	for _, f := range v.model.files {
		names := mapset.NewThreadUnsafeSet(f.funcs...)
		pkg, ok := declared[f.dir]
		if !ok {
			pkg = mapset.NewThreadUnsafeSet[string]()
			declared[f.dir] = pkg
			owner[f.dir] = make(map[string]string)
		}

		dups := names.Intersect(pkg).ToSlice()
		sort.Strings(dups)
		for _, name := range dups {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorDuplicateHandler,
				Message: fmt.Sprintf("%s is declared twice in package %s", name, packageLabel(f.dir)),
				Path:    JoinURL(f.dir.URLPrefix, ""),
				Files:   []string{owner[f.dir][name], f.relPath},
				Details: "prefix the handler name, e.g. " + prefixedExample(f.relPath, name),
			})
		}

		names.Each(func(name string) bool {
			if _, ok := owner[f.dir][name]; !ok {
				owner[f.dir][name] = f.relPath
			}
			return false
		})
		pkg.Append(names.ToSlice()...)
	}
}

type segmentSets struct {
	static   mapset.Set[string]
	captures mapset.Set[string]
	files    []string
}

// validateConflicts checks each pattern position for competing segments.
func (v *Validator) validateConflicts() {
	positions := make(map[string]*segmentSets)
	var order []string

	for _, route := range v.model.ActiveRoutes() {
		segs := splitPattern(route.URLPath)
		for i, seg := range segs {
			key := "/" + strings.Join(segs[:i], "/")
			sets, ok := positions[key]
			if !ok {
				sets = &segmentSets{
					static:   mapset.NewThreadUnsafeSet[string](),
					captures: mapset.NewThreadUnsafeSet[string](),
				}
				positions[key] = sets
				order = append(order, key)
			}
			if strings.HasPrefix(seg, "{") {
				sets.captures.Add(seg)
			} else {
				sets.static.Add(seg)
			}
			if !containsString(sets.files, route.RelPath) {
				sets.files = append(sets.files, route.RelPath)
			}
		}
	}

	for _, key := range order {
		sets := positions[key]
		captures := sortedSlice(sets.captures)

		if len(captures) > 1 {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorRouteConflict,
				Message: fmt.Sprintf("Conflicting captures under %s", key),
				Path:    key,
				Files:   sets.files,
				Details: "Captures: " + strings.Join(captures, " vs "),
			})
			continue
		}

		if v.opts.RejectStaticCapture && len(captures) == 1 && sets.static.Cardinality() > 0 {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorRouteConflict,
				Message: fmt.Sprintf("Static and capture segments compete under %s", key),
				Path:    key,
				Files:   sets.files,
				Details: fmt.Sprintf("%s vs %s", strings.Join(sortedSlice(sets.static), ", "), captures[0]),
			})
		}
	}
}

func splitPattern(pattern string) []string {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func sortedSlice(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func packageLabel(dir *DirNode) string {
	if dir.Package != "" {
		return dir.Package
	}
	if dir.Name == "" {
		return "(root)"
	}
	return dir.Name
}

func prefixedExample(relPath, name string) string {
	stem := Stem(relPath[strings.LastIndex(relPath, "/")+1:])
	if m, ok := handlerMethod(name); ok && name == m.HTTP() {
		if prefixed, ok := PrefixedHandler(stem, m); ok {
			return prefixed + "()"
		}
	}
	return urlConstName("/"+TranslateStem(stem).Ident) + name + "()"
}

// FormatValidationError formats a validation error for display.
//
//	ERROR: Duplicate route detected at GET /users
//	  users.go → /users
//	  users/index.go → /users
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ERROR: %s\n", err.Message))

	if len(err.Files) > 0 {
		for _, file := range err.Files {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", file, err.Path))
		}
	}

	if err.Details != "" {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", err.Details))
	}

	return sb.String()
}
