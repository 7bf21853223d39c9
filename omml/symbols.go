package omml

// greek maps TeX letter commands to glyphs.
var greek = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ", "upsilon": "υ",
	"phi": "φ", "varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Alpha": "Α", "Beta": "Β", "Gamma": "Γ", "Delta": "Δ", "Theta": "Θ",
	"Lambda": "Λ", "Xi": "Ξ", "Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ",
	"Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
}

// operators maps TeX symbol commands to glyphs.
var operators = map[string]string{
	"pm": "±", "mp": "∓", "times": "×", "cdot": "·", "div": "÷",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼", "propto": "∝",
	"infty": "∞", "degree": "°", "circ": "∘", "prime": "′",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"Leftarrow": "⇐", "leftrightarrow": "↔", "Leftrightarrow": "⇔",
	"sum": "∑", "prod": "∏", "int": "∫", "oint": "∮", "partial": "∂",
	"nabla": "∇", "in": "∈", "notin": "∉", "subset": "⊂", "supset": "⊃",
	"subseteq": "⊆", "supseteq": "⊇", "cup": "∪", "cap": "∩",
	"forall": "∀", "exists": "∃", "emptyset": "∅", "neg": "¬",
	"land": "∧", "lor": "∨", "ldots": "…", "cdots": "⋯", "dots": "…",
	"langle": "⟨", "rangle": "⟩", "mid": "|", "vert": "|", "perp": "⊥",
	"angle": "∠", "triangle": "△", "star": "⋆", "ast": "∗",
}

// functions are rendered upright by their name.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "log": true, "ln": true, "lg": true, "exp": true, "lim": true,
	"max": true, "min": true, "sup": true, "inf": true, "det": true, "dim": true,
	"gcd": true, "arg": true, "deg": true, "ker": true, "Pr": true,
}

// wrappers only change font or decoration, their argument is kept as is.
var wrappers = map[string]bool{
	"mathrm": true, "text": true, "textrm": true, "textbf": true, "textit": true,
	"mathbf": true, "mathit": true, "mathsf": true, "mathtt": true,
	"mathcal": true, "mathbb": true, "mathfrak": true, "boldsymbol": true,
	"operatorname": true, "hat": true, "bar": true, "vec": true, "tilde": true,
	"dot": true, "ddot": true, "overline": true, "underline": true,
	"widehat": true, "widetilde": true,
}

// textual wrappers take their argument verbatim.
var textual = map[string]bool{
	"text": true, "textrm": true, "mathrm": true, "operatorname": true,
}

// spacing commands render as single space.
var spacing = map[string]bool{
	",": true, ";": true, ":": true, " ": true, "quad": true, "qquad": true,
}

// escapes are single character commands standing for the character itself.
var escapes = map[string]string{
	"%": "%", "&": "&", "#": "#", "_": "_", "$": "$", "|": "‖",
}

// symbol returns glyph for TeX command name.
func symbol(name string) (string, bool) {
	if g, ok := greek[name]; ok {
		return g, true
	}
	if g, ok := operators[name]; ok {
		return g, true
	}
	return "", false
}
