package domain

import (
	"fmt"
	"strings"

	"cobfus.dev/pkg/cobfus/internal/csource"
	m "cobfus.dev/pkg/cobfus/internal/model"
)

// driverResult names the variable holding the invoked function's result.
const driverResult = "cobfus_result"

var storageClasses = map[string]struct{}{
	"static": {}, "extern": {}, "inline": {}, "register": {}, "_Noreturn": {},
}

// buildDriver wraps source with a main function calling proto's function on
// argv and printing its result on stdout.
func buildDriver(module, source string, proto m.Prototype) (string, error) {
	var b strings.Builder

	b.WriteString("#include <stddef.h>\n#include <stdint.h>\n")
	fmt.Fprintf(&b, "#line 1 \"%s.c\"\n", module)
	b.WriteString(source)

	if !strings.HasSuffix(source, "\n") {
		b.WriteString("\n")
	}

	b.WriteString("\n#include <stdio.h>\n#include <stdlib.h>\n\n")
	b.WriteString("int main(int argc, char **argv)\n{\n")
	fmt.Fprintf(&b, "    if (argc != %d)\n    {\n", len(proto.Params)+1)
	fmt.Fprintf(&b, "        fprintf(stderr, \"expected %d argument(s), got %%d\\n\", argc - 1);\n", len(proto.Params))
	b.WriteString("        return 2;\n    }\n")

	args := make([]string, 0, len(proto.Params))

	for i, param := range proto.Params {
		arg, err := driverArgument(param, i+1)
		if err != nil {
			return "", err
		}

		args = append(args, arg)
	}

	call := fmt.Sprintf("%s(%s)", proto.Name, strings.Join(args, ", "))
	returnType := castType(proto.ReturnType)

	switch csource.KindOf(returnType) {
	case m.KindVoid:
		fmt.Fprintf(&b, "    %s;\n", call)
	case m.KindSigned:
		fmt.Fprintf(&b, "    %s %s = %s;\n", returnType, driverResult, call)
		fmt.Fprintf(&b, "    printf(\"%%lld\\n\", (long long)%s);\n", driverResult)
	case m.KindUnsigned:
		fmt.Fprintf(&b, "    %s %s = %s;\n", returnType, driverResult, call)
		fmt.Fprintf(&b, "    printf(\"%%llu\\n\", (unsigned long long)%s);\n", driverResult)
	case m.KindFloat:
		fmt.Fprintf(&b, "    %s %s = %s;\n", returnType, driverResult, call)
		fmt.Fprintf(&b, "    printf(\"%%.17g\\n\", (double)%s);\n", driverResult)
	case m.KindPointer:
		fmt.Fprintf(&b, "    %s %s = %s;\n", returnType, driverResult, call)
		fmt.Fprintf(&b, "    printf(\"%%llu\\n\", (unsigned long long)(uintptr_t)%s);\n", driverResult)
	}

	b.WriteString("    return 0;\n}\n")

	return b.String(), nil
}

// driverArgument converts argv[index] to the C type of a parameter.
func driverArgument(param string, index int) (string, error) {
	typ := castType(param)

	switch csource.KindOf(typ) {
	case m.KindSigned:
		return fmt.Sprintf("(%s)strtoll(argv[%d], NULL, 10)", typ, index), nil
	case m.KindUnsigned:
		return fmt.Sprintf("(%s)strtoull(argv[%d], NULL, 10)", typ, index), nil
	case m.KindFloat:
		return fmt.Sprintf("(%s)strtod(argv[%d], NULL)", typ, index), nil
	case m.KindPointer:
		return fmt.Sprintf("(%s)(uintptr_t)strtoull(argv[%d], NULL, 10)", typ, index), nil
	default:
		return "", fmt.Errorf("%w: parameter %d has type %q", ErrUnsupportedType, index, param)
	}
}

// castType drops storage classes, which are not allowed in casts or local
// declarations.
func castType(ctype string) string {
	words := strings.Fields(ctype)
	kept := make([]string, 0, len(words))

	for _, word := range words {
		if _, ok := storageClasses[word]; !ok {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}
