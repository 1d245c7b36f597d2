// Package key maps raw input codes to editor commands.
//
// Input arrives as one code at a time: a printable character or a control
// byte such as 0x11 (Ctrl+Q). A Keymap classifies each code into a Command.
// Codes with no binding fall through to one of two explicit default variants:
//
//   - CommandInsert for printable characters (and newline and tab)
//   - CommandUnknown for any other control code
//
// so callers can switch over Command exhaustively.
//
// # Key Specifications
//
// Bindings in configuration and scripts name codes in any of these forms:
//
//   - Caret notation: "^q", "^Q", "^?" (DEL)
//   - Vim-style: "<C-q>", "<BS>", "<Del>", "<CR>", "<Tab>"
//   - Modifier style: "Ctrl+Q"
//   - Names: "DEL", "Backspace", "Enter", "Tab", "Escape"
//   - Decimal code: "17"
//   - A single character: "x"
package key
