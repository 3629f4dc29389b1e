package main

func (m model) View() string {
	if !m.preview {
		return ""
	}
	if m.width == 0 {
		return "Initializing.."
	}
	return m.styles.render(m.frame, m.width)
}
