package mappings

type PlotStyle struct {
	Color       string
	LineStyle   string
	LineWidth   string
	Mark        string
	MarkOptions string
}

var PartitionStyles = []PlotStyle{
	{Color: "red", LineStyle: "solid", LineWidth: "thick", Mark: "x", MarkOptions: "scale=0.6"},
	{Color: "blue", LineStyle: "solid", LineWidth: "thick", Mark: "square", MarkOptions: "scale=0.4"},
	{Color: "green!70!black", LineStyle: "solid", LineWidth: "thick", Mark: "*", MarkOptions: "scale=0.4,fill=green!70!black"},
	{Color: "orange", LineStyle: "solid", LineWidth: "thick", Mark: "triangle*", MarkOptions: "scale=0.6,fill=orange"},
	{Color: "purple", LineStyle: "solid", LineWidth: "thick", Mark: "diamond*", MarkOptions: "scale=0.6,fill=purple"},
	{Color: "brown", LineStyle: "solid", LineWidth: "thick", Mark: "pentagon*", MarkOptions: "scale=0.6,fill=brown"},
	{Color: "black", LineStyle: "solid", LineWidth: "thick", Mark: "o", MarkOptions: "scale=0.4"},
	{Color: "cyan", LineStyle: "solid", LineWidth: "thick", Mark: "star", MarkOptions: "scale=0.6"},

	{Color: "red", LineStyle: "dashed", LineWidth: "thick", Mark: "x", MarkOptions: "scale=0.6"},
	{Color: "blue", LineStyle: "dashed", LineWidth: "thick", Mark: "square", MarkOptions: "scale=0.4"},
	{Color: "green!70!black", LineStyle: "dashed", LineWidth: "thick", Mark: "*", MarkOptions: "scale=0.4,fill=green!70!black"},
	{Color: "orange", LineStyle: "dashed", LineWidth: "thick", Mark: "triangle*", MarkOptions: "scale=0.6,fill=orange"},

	{Color: "red", LineStyle: "densely dotted", LineWidth: "thick", Mark: "x", MarkOptions: "scale=0.6"},
	{Color: "blue", LineStyle: "densely dotted", LineWidth: "thick", Mark: "square", MarkOptions: "scale=0.4"},
	{Color: "green!70!black", LineStyle: "densely dotted", LineWidth: "thick", Mark: "*", MarkOptions: "scale=0.4,fill=green!70!black"},
	{Color: "orange", LineStyle: "densely dotted", LineWidth: "thick", Mark: "triangle*", MarkOptions: "scale=0.6,fill=orange"},
}

func GetPartitionStyle(index int) PlotStyle {
	if index < 0 {
		index = 0
	}
	return PartitionStyles[index%len(PartitionStyles)]
}

func (ps PlotStyle) ToTikzOptions() string {
	options := ps.Color
	if ps.LineStyle != "" {
		options += "," + ps.LineStyle
	}
	if ps.LineWidth != "" {
		options += "," + ps.LineWidth
	}
	if ps.Mark != "none" && ps.Mark != "" {
		options += ",mark=" + ps.Mark
		if ps.MarkOptions != "" {
			options += ",mark options={" + ps.MarkOptions + "}"
		}
	}
	return options
}
