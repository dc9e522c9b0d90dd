package buildinfo

const Graffiti = " _  __ __  __ ___   _   _  _ ___ \n" +
	"| |/ /|  \\/  | __| /_\\ | \\| / __|\n" +
	"| ' < | |\\/| | _| / _ \\| .' \\__ \\\n" +
	"|_|\\_\\|_|  |_|___/_/ \\_\\_|\\_|___/\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "KMEANS"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
