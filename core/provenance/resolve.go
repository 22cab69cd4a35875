package provenance

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Rule names the step of the resolution chain that produced a path.
type Rule string

// Resolution chain steps, in evaluation order.
const (
	RuleMap         Rule = "position-map"
	RuleEmbedded    Rule = "embedded-path"
	RuleReExport    Rule = "re-export"
	RuleRequire     Rule = "require"
	RulePlatformUI  Rule = "platform-ui"
	RulePathLiteral Rule = "path-literal"
	RuleFingerprint Rule = "fingerprint"
	RuleDefaultVar  Rule = "default-import"
	RuleGuess       Rule = "guess"
)

// smallModuleBytes is the size under which an unresolved module is guessed to be a utility.
const smallModuleBytes = 500

var (
	// embeddedPath is anchored to the end of the registration call.
	embeddedPath   = regexp.MustCompile(`function\s*\([^)]*\)\s*\{[\s\S]*\}\s*,\s*\d+\s*,\s*(?:\[[^\]]*\]\s*,\s*)?["']([^"']+)["']\s*\)\s*;?\s*$`)
	reExport       = regexp.MustCompile(`module\.exports\s*=\s*require\(\s*["']([^"']+)["']\s*\)`)
	requireCall    = regexp.MustCompile(`\b(?:require|import)\(\s*["']([^"']+)["']\s*\)`)
	uiElement      = regexp.MustCompile(`\b(?:createElement|jsxs?|jsxDEV)\)?\(\s*["']?(?:[\w$]+\.)?(?:View|Text|Image|ScrollView|TouchableOpacity|Pressable|TextInput|FlatList|SectionList|Modal)\b`)
	runtimeMarker  = regexp.MustCompile(`\b(?:NativeModules|UIManager|TurboModuleRegistry|__fbBatchedBridge|requireNativeComponent|NativeEventEmitter)\b`)
	pathLiteral    = regexp.MustCompile(`["']((?:[^"'\s]*/)?(?:node_modules|src|lib)/[^"'\s]*)["']`)
	specifier      = regexp.MustCompile(`(?:\bfrom\s*|\brequire\(\s*)["']([^"']+)["']`)
	defaultImport  = regexp.MustCompile(`\b_([A-Za-z][A-Za-z0-9]*)\.default\b`)
	layoutAPI      = regexp.MustCompile(`\b(?:StyleSheet\.create|Dimensions\.get|useWindowDimensions|SafeAreaView)\b|\bflexDirection\b`)
	trailingDigits = regexp.MustCompile(`[0-9]+$`)
)

// Resolver turns module code into a best-guess source path.
// A nil Map means no position map was loaded.
type Resolver struct {
	Map *PositionMap
}

// Resolve returns the path for one module. It never returns an empty string.
func (r Resolver) Resolve(code string, chunkIndex, declaredID int) string {
	path, _ := r.Explain(code, chunkIndex, declaredID)
	return path
}

// Explain is Resolve that also reports which rule matched.
// The order below is significant: earlier rules are more trustworthy.
func (r Resolver) Explain(code string, chunkIndex, declaredID int) (string, Rule) {
	// 1. Position map by emission order
	if src, ok := r.Map.Source(chunkIndex); ok {
		if p := NormalizePath(src); p != "" {
			return p, RuleMap
		}
	}

	// 2. Path trailing the factory, as the last argument of the call
	if m := embeddedPath.FindStringSubmatch(code); m != nil {
		if p := NormalizePath(m[1]); p != "" {
			return p, RuleEmbedded
		}
	}

	// 3. Re-export passthrough
	if m := reExport.FindStringSubmatch(code); m != nil {
		return m[1], RuleReExport
	}

	// 4. First require or dynamic import
	if m := requireCall.FindStringSubmatch(code); m != nil {
		if isBare(m[1]) {
			return "node_modules/" + m[1], RuleRequire
		}
		return m[1], RuleRequire
	}

	// 5. Platform UI element creation
	if uiElement.MatchString(code) {
		if runtimeMarker.MatchString(code) {
			return fmt.Sprintf("node_modules/react-native/Libraries/module_%d.js", declaredID), RulePlatformUI
		}
		return fmt.Sprintf("src/components/module_%d.js", declaredID), RulePlatformUI
	}

	// 6. Any path-shaped string literal
	if m := pathLiteral.FindStringSubmatch(code); m != nil {
		return m[1], RulePathLiteral
	}

	// 7. Well-known package specifiers
	for _, m := range specifier.FindAllStringSubmatch(code, -1) {
		if _, ok := matchFingerprint(m[1]); ok {
			return "node_modules/" + leadingPackage(m[1]) + "/index.js", RuleFingerprint
		}
	}

	// 8. Transpiled default import variable
	if m := defaultImport.FindStringSubmatch(code); m != nil {
		if name := kebabCase(trailingDigits.ReplaceAllString(m[1], "")); name != "" {
			return "node_modules/" + name + "/index.js", RuleDefaultVar
		}
	}

	// 9. Guesses
	switch {
	case len(code) < smallModuleBytes:
		return fmt.Sprintf("src/utils/module_%d.js", declaredID), RuleGuess
	case layoutAPI.MatchString(code):
		return fmt.Sprintf("src/screens/module_%d.js", declaredID), RuleGuess
	default:
		return fmt.Sprintf("module_%d", declaredID), RuleGuess
	}
}

func isBare(spec string) bool {
	return !strings.HasPrefix(spec, ".") && !strings.HasPrefix(spec, "/")
}

// leadingPackage keeps the first path component, or the first two for scoped names.
func leadingPackage(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// kebabCase turns reactNative into react-native and MyAPIClient into my-api-client.
func kebabCase(ident string) string {
	runes := []rune(ident)
	var b strings.Builder
	for i, c := range runes {
		if unicode.IsUpper(c) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(c))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
