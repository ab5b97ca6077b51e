package memory

import (
	"fmt"

	"champion-quiz/internal/domain"
)

type bankQuestion struct {
	prompt  string
	correct int
	options []string
}

func q(prompt string, correct int, options ...string) bankQuestion {
	return bankQuestion{prompt: prompt, correct: correct, options: options}
}

func tf(prompt string, truth bool) bankQuestion {
	if truth {
		return q(prompt, 0, "True", "False")
	}
	return q(prompt, 1, "True", "False")
}

func build(id, title, media string, questions ...bankQuestion) domain.Quiz {
	quiz := domain.Quiz{ID: id, Title: title, Questions: make([]domain.Question, 0, len(questions))}
	for i, bq := range questions {
		question := domain.Question{
			ID:      fmt.Sprintf("%s-%02d", id, i+1),
			Prompt:  bq.prompt,
			Options: bq.options,
			Correct: bq.correct,
		}
		if media != "" {
			question.Media = fmt.Sprintf("%s/%s-%02d", media, id, i+1)
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

// DefaultBank is the built-in question bank matching domain.DefaultCatalog.
func DefaultBank() map[string]domain.Quiz {
	quizzes := []domain.Quiz{
		build("song", "Name that song", "clips",
			q("Which band recorded \"Bohemian Rhapsody\"?", 2, "The Beatles", "Led Zeppelin", "Queen", "ABBA"),
			q("Who sang \"Rolling in the Deep\"?", 0, "Adele", "Duffy", "Amy Winehouse", "Sia"),
			q("\"Smells Like Teen Spirit\" is by...", 1, "Pearl Jam", "Nirvana", "Soundgarden", "Alice in Chains"),
			q("Which artist released \"Thriller\"?", 3, "Prince", "Stevie Wonder", "Lionel Richie", "Michael Jackson"),
			q("\"Dancing Queen\" was a hit for...", 0, "ABBA", "Boney M.", "Bee Gees", "Blondie"),
			q("Who performed \"Purple Rain\"?", 2, "David Bowie", "Madonna", "Prince", "Cyndi Lauper"),
			q("\"Hey Jude\" was written for the son of...", 1, "Paul McCartney", "John Lennon", "Ringo Starr", "George Harrison"),
			q("Which group sang \"Wonderwall\"?", 3, "Blur", "Pulp", "The Verve", "Oasis"),
			q("\"Like a Prayer\" is by...", 0, "Madonna", "Whitney Houston", "Janet Jackson", "Kylie Minogue"),
			q("Who recorded \"Shape of You\"?", 1, "Sam Smith", "Ed Sheeran", "Shawn Mendes", "Harry Styles"),
		),
		build("movie", "Movie frames", "frames",
			q("Which film features the line \"I'll be back\"?", 1, "Predator", "The Terminator", "Commando", "Total Recall"),
			q("Who directed \"Jaws\"?", 0, "Steven Spielberg", "George Lucas", "Ridley Scott", "John Carpenter"),
			q("In \"The Matrix\", which pill does Neo take?", 2, "Blue", "Green", "Red", "White"),
			q("Which movie is set on the planet Pandora?", 3, "Dune", "Interstellar", "Oblivion", "Avatar"),
			q("\"Here's looking at you, kid\" comes from...", 0, "Casablanca", "Gone with the Wind", "Citizen Kane", "Vertigo"),
			q("Which film won Best Picture for 1997?", 1, "Good Will Hunting", "Titanic", "As Good as It Gets", "L.A. Confidential"),
			q("What is the name of the hobbit played by Elijah Wood?", 2, "Samwise", "Bilbo", "Frodo", "Pippin"),
			q("Which studio made \"Spirited Away\"?", 0, "Studio Ghibli", "Pixar", "Toei", "Madhouse"),
			q("Who plays Jack Sparrow?", 3, "Orlando Bloom", "Brad Pitt", "Keanu Reeves", "Johnny Depp"),
			q("\"Why so serious?\" is said by...", 1, "Bane", "The Joker", "Two-Face", "Scarecrow"),
		),
		build("trivia", "General trivia", "",
			q("What is the capital of Australia?", 2, "Sydney", "Melbourne", "Canberra", "Perth"),
			q("How many continents are there?", 1, "Six", "Seven", "Eight", "Five"),
			q("Which planet is known as the Red Planet?", 0, "Mars", "Venus", "Jupiter", "Mercury"),
			q("What is the chemical symbol for gold?", 3, "Go", "Gd", "Ag", "Au"),
			q("Who painted the Mona Lisa?", 1, "Michelangelo", "Leonardo da Vinci", "Raphael", "Donatello"),
			q("What is the largest ocean?", 0, "Pacific", "Atlantic", "Indian", "Arctic"),
			q("How many sides does a hexagon have?", 2, "Five", "Seven", "Six", "Eight"),
			q("Which language has the most native speakers?", 3, "English", "Spanish", "Hindi", "Mandarin Chinese"),
			q("What year did the Berlin Wall fall?", 1, "1987", "1989", "1991", "1993"),
			q("What is the smallest prime number?", 0, "2", "1", "3", "0"),
		),
		build("song2", "Name that song: encore", "clips",
			q("Who sang \"Bad Guy\"?", 1, "Lorde", "Billie Eilish", "Halsey", "Dua Lipa"),
			q("\"Uptown Funk\" features which artist?", 0, "Bruno Mars", "Pharrell", "The Weeknd", "Usher"),
			q("Which band released \"Mr. Brightside\"?", 2, "Franz Ferdinand", "Arctic Monkeys", "The Killers", "Kings of Leon"),
			q("\"Hotel California\" is by...", 3, "Fleetwood Mac", "Eagles", "Toto", "Eagles of Death Metal"),
			q("Who recorded \"Halo\"?", 0, "Beyonce", "Rihanna", "Alicia Keys", "Ciara"),
			q("\"Seven Nation Army\" is by...", 1, "The Black Keys", "The White Stripes", "The Strokes", "Interpol"),
			q("Which artist sang \"Blinding Lights\"?", 2, "Drake", "Post Malone", "The Weeknd", "Khalid"),
			q("\"Take On Me\" was a hit for...", 3, "Europe", "Roxette", "Duran Duran", "a-ha"),
			q("Who recorded \"Hallelujah\" first?", 0, "Leonard Cohen", "Jeff Buckley", "Bob Dylan", "John Cale"),
			q("\"Africa\" was recorded by...", 1, "Journey", "Toto", "Chicago", "Boston"),
		),
		build("movie2", "Movie frames: sequel", "frames",
			q("Which film features a DeLorean time machine?", 0, "Back to the Future", "Bill & Ted", "Time Bandits", "Looper"),
			q("Who directed \"Pulp Fiction\"?", 2, "Martin Scorsese", "Guy Ritchie", "Quentin Tarantino", "David Fincher"),
			q("In \"Toy Story\", what is the cowboy's name?", 1, "Buzz", "Woody", "Jessie", "Rex"),
			q("Which movie features the Overlook Hotel?", 3, "Psycho", "It", "Misery", "The Shining"),
			q("What is the first rule of Fight Club?", 0, "You do not talk about Fight Club", "No shirts", "Only two guys", "No shoes"),
			q("Which film is about a shark named Bruce on set?", 1, "Deep Blue Sea", "Jaws", "The Meg", "Open Water"),
			q("Who played Forrest Gump?", 2, "Robin Williams", "Bill Murray", "Tom Hanks", "Kevin Costner"),
			q("\"You're gonna need a bigger boat\" comes from...", 3, "Moby Dick", "Titanic", "The Abyss", "Jaws"),
			q("Which film features the character Ellen Ripley?", 0, "Alien", "Terminator 2", "Predator", "Starship Troopers"),
			q("What color is the slipper Dorothy wears in the 1939 film?", 1, "Silver", "Ruby red", "Gold", "Emerald"),
		),
		build("trivia2", "General trivia: round two", "",
			q("What is the hardest natural substance?", 2, "Quartz", "Granite", "Diamond", "Topaz"),
			q("How many bones are in the adult human body?", 1, "186", "206", "226", "246"),
			q("Which element has atomic number 1?", 0, "Hydrogen", "Helium", "Lithium", "Oxygen"),
			q("What is the longest river in the world?", 3, "Amazon", "Yangtze", "Mississippi", "Nile"),
			q("Who wrote \"1984\"?", 1, "Aldous Huxley", "George Orwell", "Ray Bradbury", "H. G. Wells"),
			q("What is the currency of Japan?", 0, "Yen", "Won", "Yuan", "Ringgit"),
			q("Which gas do plants absorb?", 2, "Oxygen", "Nitrogen", "Carbon dioxide", "Helium"),
			q("What is the tallest mountain on Earth?", 3, "K2", "Kangchenjunga", "Lhotse", "Everest"),
			q("How many players on a soccer team on the field?", 1, "Ten", "Eleven", "Twelve", "Nine"),
			q("What is the freezing point of water in Fahrenheit?", 0, "32", "0", "100", "212"),
		),
		build("truefalse", "True or false", "",
			tf("The Great Wall of China is visible from the Moon with the naked eye.", false),
			tf("Octopuses have three hearts.", true),
			tf("Lightning never strikes the same place twice.", false),
			tf("Bananas are berries.", true),
			tf("Goldfish have a three-second memory.", false),
			tf("Honey never spoils.", true),
			tf("Humans use only 10% of their brains.", false),
			tf("Sound travels faster in water than in air.", true),
			tf("Bats are blind.", false),
			tf("A day on Venus is longer than its year.", true),
		),
		build("silhouette", "Silhouettes", "silhouettes",
			q("Whose silhouette is this: a tall hat and a cane?", 1, "Sherlock Holmes", "Charlie Chaplin", "Abraham Lincoln", "Willy Wonka"),
			q("Which landmark has this outline?", 0, "Eiffel Tower", "Tokyo Tower", "CN Tower", "Space Needle"),
			q("Which animal casts this shape?", 2, "Horse", "Deer", "Giraffe", "Camel"),
			q("Which superhero has this cape and ears?", 3, "Superman", "Spider-Man", "Daredevil", "Batman"),
			q("Which instrument is shown?", 0, "Cello", "Violin", "Double bass", "Guitar"),
			q("Which building is this skyline?", 1, "Empire State Building", "Sydney Opera House", "Burj Khalifa", "Taj Mahal"),
			q("Which cartoon mouse has these ears?", 2, "Jerry", "Speedy Gonzales", "Mickey Mouse", "Stuart Little"),
			q("Which vehicle is this?", 3, "Tractor", "Tram", "Bus", "Vespa"),
			q("Which dinosaur has this profile?", 0, "Stegosaurus", "Triceratops", "Velociraptor", "Brachiosaurus"),
			q("Which country has this outline?", 1, "Portugal", "Italy", "Greece", "Chile"),
		),
		build("emoji", "Emoji puzzles", "",
			q("🦁👑 is which film?", 0, "The Lion King", "Madagascar", "The Jungle Book", "Zootopia"),
			q("🕷️🧑 is which hero?", 1, "Ant-Man", "Spider-Man", "Batman", "Hawkeye"),
			q("❄️👸 is which film?", 2, "Tangled", "Brave", "Frozen", "Moana"),
			q("🚢🧊💔 is which film?", 3, "Poseidon", "Dunkirk", "Waterworld", "Titanic"),
			q("🧙‍♂️💍🌋 is which story?", 0, "The Lord of the Rings", "Harry Potter", "The Hobbit", "Willow"),
			q("🦖🏝️ is which film?", 1, "King Kong", "Jurassic Park", "Godzilla", "Land of the Lost"),
			q("👻🚫 is which film?", 2, "Beetlejuice", "Casper", "Ghostbusters", "The Others"),
			q("🐠🔍 is which film?", 3, "Shark Tale", "The Little Mermaid", "Luca", "Finding Nemo"),
			q("🍫🏭 is which film?", 0, "Charlie and the Chocolate Factory", "Chocolat", "Wonka", "Ratatouille"),
			q("🤖❤️🌱 is which film?", 1, "Big Hero 6", "WALL-E", "Robots", "The Iron Giant"),
		),
	}

	bank := make(map[string]domain.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		bank[quiz.ID] = quiz
	}
	return bank
}
