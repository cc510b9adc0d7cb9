package logger

const doc = `# logging

Reports each handler call.

    → add(2, 3)
    ← add() → 5 (0.0001s)
    ✗ divide() raised INVALID_INPUT: division by zero

## Settings

- **mode**: comma-separated flags, default ` + "`log,disabled`" + `
  - ` + "`print`" + ` or ` + "`log`" + `: write to stdout or to the configured zerolog logger
  - ` + "`enabled`" + ` or ` + "`disabled`" + `
  - ` + "`before`" + `, ` + "`after`" + `, ` + "`time`" + `: what to show; both before and after when omitted
- **config**: per-handler modes keyed by comma-joined handler names

Overrides keep every axis they do not name, enablement included: with the
default ` + "`log,disabled`" + ` an override of ` + "`print,after`" + ` stays disabled.
To trace only some handlers, add ` + "`enabled`" + ` to their override.
Use ` + "`!after`" + ` to clear a content flag for one handler.
`
