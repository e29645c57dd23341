package rewrite

import (
	"strings"
	"testing"

	"github.com/sokinpui/desingle/internal/catalog"
)

func logsCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Logs: catalog.Logs{
			Origin:          "Debug",
			Target:          "LogHelper",
			Wrap:            []string{"Log", "LogWarning"},
			KeepCalls:       []string{"LogError"},
			Import:          "using NeuralBreak.Utils;",
			SkipPathMarkers: []string{"Editor", "Debug"},
		},
	}
}

func TestLogsWrap(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := strings.Join([]string{
		"using UnityEngine;",
		"",
		"namespace Game",
		"{",
		"    public class A : MonoBehaviour",
		"    {",
		"        void Start()",
		"        {",
		"            Debug.Log(\"hi\");",
		"            Debug.LogWarning(\"warn\");",
		"            Debug.LogError(\"err\");",
		"        }",
		"    }",
		"}",
	}, "\n")

	got, matched := logs.Apply(input)

	if !strings.Contains(got, "            LogHelper.Log(\"hi\");") {
		t.Errorf("Log not wrapped:\n%s", got)
	}
	if !strings.Contains(got, "            LogHelper.LogWarning(\"warn\");") {
		t.Errorf("LogWarning not wrapped:\n%s", got)
	}
	if !strings.Contains(got, "            Debug.LogError(\"err\");") {
		t.Errorf("LogError must never be altered:\n%s", got)
	}
	if strings.Contains(got, "Debug.Log(\"") || strings.Contains(got, "Debug.LogWarning(") {
		t.Errorf("origin calls survived:\n%s", got)
	}

	lines := strings.Split(got, "\n")
	if lines[0] != "using UnityEngine;" || lines[1] != "using NeuralBreak.Utils;" {
		t.Errorf("import not inserted after the using run:\n%s", got)
	}

	if len(matched) != 2 {
		t.Errorf("matched = %v, want [Log LogWarning]", matched)
	}
}

func TestLogsIdempotent(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := "using UnityEngine;\n\nclass A {\n    void F() {\n        Debug.Log(1);\n    }\n}\n"
	once, _ := logs.Apply(input)
	twice, matched := logs.Apply(once)
	if twice != once {
		t.Errorf("second Apply changed content:\nonce:  %q\ntwice: %q", once, twice)
	}
	if len(matched) != 0 {
		t.Errorf("second Apply matched = %v, want none", matched)
	}
	if strings.Count(twice, "using NeuralBreak.Utils;") != 1 {
		t.Errorf("import occurs %d times, want exactly 1", strings.Count(twice, "using NeuralBreak.Utils;"))
	}
}

func TestLogsImportBeforeNamespace(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := "namespace Game {\n    class A {\n        void F() {\n            Debug.Log(1);\n        }\n    }\n}\n"
	got, _ := logs.Apply(input)

	lines := strings.Split(got, "\n")
	if lines[0] != "using NeuralBreak.Utils;" || lines[1] != "" || lines[2] != "namespace Game {" {
		t.Errorf("import not inserted before namespace with blank separator:\n%s", got)
	}
}

func TestLogsImportPrepended(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := "class A {\n    void F() {\n        Debug.Log(1);\n    }\n}\n"
	got, _ := logs.Apply(input)

	if !strings.HasPrefix(got, "using NeuralBreak.Utils;\n\nclass A {") {
		t.Errorf("import not prepended:\n%s", got)
	}
}

func TestLogsImportAlreadyPresent(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := "using UnityEngine;\nusing NeuralBreak.Utils;\n\nclass A {\n    void F() {\n        LogHelper.Log(1);\n    }\n}\n"
	got, _ := logs.Apply(input)
	if got != input {
		t.Errorf("Apply() = %q, want unchanged", got)
	}
}

func TestLogsEligibility(t *testing.T) {
	logs := NewLogs(logsCatalog())

	t.Run("editor path", func(t *testing.T) {
		if logs.Eligible("Assets/Scripts/Editor/Tool.cs", "        Debug.Log(1);") {
			t.Error("editor-only file must not be eligible")
		}
		if !logs.SkippedPath("Assets/Scripts/Editor/Tool.cs") {
			t.Error("editor-only path must be reported as skipped")
		}
	})

	t.Run("debug path", func(t *testing.T) {
		if logs.Eligible("Assets/Scripts/DebugOverlay.cs", "        Debug.Log(1);") {
			t.Error("debugging-tool file must not be eligible")
		}
	})

	t.Run("no wrappable call", func(t *testing.T) {
		if logs.Eligible("Assets/Scripts/Player.cs", "        Debug.LogError(1);") {
			t.Error("file without wrappable calls must not be eligible")
		}
		if logs.SkippedPath("Assets/Scripts/Player.cs") {
			t.Error("plain path must not be reported as skipped")
		}
	})

	t.Run("eligible", func(t *testing.T) {
		if !logs.Eligible("Assets/Scripts/Player.cs", "        Debug.LogWarning(1);") {
			t.Error("file with a wrappable call must be eligible")
		}
	})
}

func TestLogsPreservesCRLF(t *testing.T) {
	logs := NewLogs(logsCatalog())

	input := "using UnityEngine;\r\n\r\nclass A {\r\n    void F() {\r\n        Debug.Log(1);\r\n    }\r\n}\r\n"
	got, _ := logs.Apply(input)

	if !strings.Contains(got, "using UnityEngine;\r\nusing NeuralBreak.Utils;\r\n") {
		t.Errorf("inserted import must carry the neighbor's CRLF:\n%q", got)
	}
	if !strings.Contains(got, "        LogHelper.Log(1);\r\n") {
		t.Errorf("wrapped call lost its CRLF:\n%q", got)
	}
}
