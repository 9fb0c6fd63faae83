package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExtensionCode(t *testing.T) {
	code := `import { Auth } from './auth';
import {
    Logger,
    Level
} from "./log";

// braces in strings and comments are not structure
export class PetsClient extends PetsClientBase {
    private open = "{";
    /* } */
    protected transformOptions(options: RequestInit) {
        return Promise.resolve(options); // }
    }
}

class Helper {
    run() {}
}

export const registry = {clientClasses};
`
	ext := ParseExtensionCode(code, []string{"PetsClient"})

	assert.Equal(t, []string{
		"import { Auth } from './auth';",
		"import {\n    Logger,\n    Level\n} from \"./log\";",
	}, ext.Imports)
	assert.Equal(t, map[string]string{
		"PetsClient": `export class PetsClient extends PetsClientBase {
    private open = "{";
    /* } */
    protected transformOptions(options: RequestInit) {
        return Promise.resolve(options); // }
    }
}`,
	}, ext.Classes)
	assert.Equal(t, `// braces in strings and comments are not structure


class Helper {
    run() {}
}

export const registry = {clientClasses};`, ext.Code)
}

func TestParseExtensionCodeEmpty(t *testing.T) {
	ext := ParseExtensionCode("  \n", []string{"PetsClient"})
	assert.Empty(t, ext.Imports)
	assert.Empty(t, ext.Classes)
	assert.Empty(t, ext.Code)
}

func TestParseExtensionCodeUnbalanced(t *testing.T) {
	ext := ParseExtensionCode("export class PetsClient {\n", []string{"PetsClient"})
	assert.Empty(t, ext.Classes)
	assert.Equal(t, "export class PetsClient {", ext.Code)
}

func TestClientClassesMap(t *testing.T) {
	assert.Equal(t, "{}", clientClassesMap(nil))
	assert.Equal(t, "{'AClient': AClient, 'BClient': BClient}", clientClassesMap([]string{"AClient", "BClient"}))
}
